package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/application/orders"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

const testBusinessID = "00000000-0000-0000-0000-0000000000b1"

// ──────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────

type memStore struct {
	stocks    map[string]entity.Stock
	customers map[string]entity.Customer
	taxes     map[string]entity.BusinessAccountTax
	orders    map[string]entity.Order
	items     map[string]entity.OrderItem
}

func newMemStore() *memStore {
	return &memStore{
		stocks:    map[string]entity.Stock{},
		customers: map[string]entity.Customer{},
		taxes:     map[string]entity.BusinessAccountTax{},
		orders:    map[string]entity.Order{},
		items:     map[string]entity.OrderItem{},
	}
}

type memStockRepo struct{ s *memStore }

func (r *memStockRepo) Create(st *entity.Stock) error { r.s.stocks[st.ID] = *st; return nil }
func (r *memStockRepo) GetByID(id string) (*entity.Stock, error) {
	if st, ok := r.s.stocks[id]; ok {
		cp := st
		return &cp, nil
	}
	return nil, nil
}
func (r *memStockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) { return r.GetByID(id) }
func (r *memStockRepo) ListByBusiness(string, int, int) ([]*entity.Stock, error) {
	return nil, nil
}
func (r *memStockRepo) Update(st *entity.Stock) error { r.s.stocks[st.ID] = *st; return nil }
func (r *memStockRepo) Delete(id string) error        { delete(r.s.stocks, id); return nil }

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) Create(c *entity.Customer) error { r.s.customers[c.ID] = *c; return nil }
func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.s.customers[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}
func (r *memCustomerRepo) ListByBusiness(string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}
func (r *memCustomerRepo) Update(c *entity.Customer) error { r.s.customers[c.ID] = *c; return nil }
func (r *memCustomerRepo) Delete(id string) error          { delete(r.s.customers, id); return nil }

type memTaxRepo struct{ s *memStore }

func (r *memTaxRepo) Create(t *entity.BusinessAccountTax) error { r.s.taxes[t.ID] = *t; return nil }
func (r *memTaxRepo) GetByID(id string) (*entity.BusinessAccountTax, error) {
	if t, ok := r.s.taxes[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, nil
}
func (r *memTaxRepo) ListByBusiness(businessID string) ([]*entity.BusinessAccountTax, error) {
	return r.list(businessID, false)
}
func (r *memTaxRepo) ListActiveByBusiness(businessID string) ([]*entity.BusinessAccountTax, error) {
	return r.list(businessID, true)
}
func (r *memTaxRepo) list(businessID string, onlyActive bool) ([]*entity.BusinessAccountTax, error) {
	var out []*entity.BusinessAccountTax
	for _, t := range r.s.taxes {
		if t.BusinessAccountID != businessID {
			continue
		}
		if onlyActive && !t.Active {
			continue
		}
		cp := t
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memTaxRepo) Update(t *entity.BusinessAccountTax) error { r.s.taxes[t.ID] = *t; return nil }
func (r *memTaxRepo) Delete(id string) error                    { delete(r.s.taxes, id); return nil }

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(o *entity.Order) error { r.s.orders[o.ID] = *o; return nil }
func (r *memOrderRepo) Update(o *entity.Order) error { r.s.orders[o.ID] = *o; return nil }
func (r *memOrderRepo) Delete(id string) error       { delete(r.s.orders, id); return nil }
func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	if o, ok := r.s.orders[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, nil
}
func (r *memOrderRepo) ListByBusiness(businessID string, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.BusinessAccountID != businessID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		cp := o
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memOrderRepo) CreateItem(it *entity.OrderItem) error { r.s.items[it.ID] = *it; return nil }
func (r *memOrderRepo) UpdateItem(it *entity.OrderItem) error { r.s.items[it.ID] = *it; return nil }
func (r *memOrderRepo) DeleteItem(id string) error            { delete(r.s.items, id); return nil }
func (r *memOrderRepo) DeleteItemsByOrder(orderID string) error {
	for id, it := range r.s.items {
		if it.OrderID == orderID {
			delete(r.s.items, id)
		}
	}
	return nil
}
func (r *memOrderRepo) GetItems(orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.s.items {
		if it.OrderID == orderID {
			cp := it
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *memOrderRepo) GetItemByStock(orderID, stockID string) (*entity.OrderItem, error) {
	for _, it := range r.s.items {
		if it.OrderID == orderID && it.StockID == stockID {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

// memOrderTxRunner ejecuta el callback directamente (las fakes no transaccionan).
type memOrderTxRunner struct{ s *memStore }

func (r *memOrderTxRunner) RunOrder(_ context.Context, fn func(repository.OrderRepository) error) error {
	return fn(&memOrderRepo{s: r.s})
}

// ──────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────

func newOrderUseCase(s *memStore) *orders.OrderUseCase {
	return orders.NewOrderUseCase(
		&memOrderTxRunner{s: s},
		&memOrderRepo{s: s},
		&memStockRepo{s: s},
		&memCustomerRepo{s: s},
		&memTaxRepo{s: s},
	)
}

func seedCustomer(s *memStore) string {
	id := uuid.New().String()
	s.customers[id] = entity.Customer{
		ID: id, BusinessAccountID: testBusinessID, Name: "Rosa Melano", PhoneNumber: "+5491100000001",
	}
	return id
}

func seedStock(s *memStore, product, unit, quantity, price string) string {
	id := uuid.New().String()
	s.stocks[id] = entity.Stock{
		ID:                id,
		BusinessAccountID: testBusinessID,
		Product:           product,
		Unit:              unit,
		Quantity:          decimal.RequireFromString(quantity),
		Price:             decimal.RequireFromString(price),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	return id
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────
// Creación FROM_LIST
// ──────────────────────────────────────────────────────────────────────────

// Ítems duplicados en el mismo envío se consolidan en una sola línea sumando
// cantidades.
func TestCreateFromList_ConsolidaDuplicados(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "10", "2.50")
	uc := newOrderUseCase(s)

	out, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items: []dto.OrderItemRequest{
			{StockID: appleID, Quantity: qty("2")},
			{StockID: appleID, Quantity: qty("3")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1, "los duplicados deben consolidarse en una fila")
	assert.True(t, out.Items[0].Quantity.Equal(qty("5")), "las cantidades deben sumarse")
	assert.Equal(t, "5 Apples", out.Description)
	assert.True(t, out.Cost.Equal(qty("12.50")), "cost = round(5 * 2.50, 2); got %s", out.Cost)
	assert.Equal(t, entity.OrderStatusOpen, out.Status)
}

// La cantidad consolidada se valida contra el stock: 3 + 3 > 5 falla aunque
// cada línea individual quepa.
func TestCreateFromList_ConsolidadoSuperaStock(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "5", "2.50")
	uc := newOrderUseCase(s)

	_, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items: []dto.OrderItemRequest{
			{StockID: appleID, Quantity: qty("3")},
			{StockID: appleID, Quantity: qty("3")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Apple", stockErr.Product)
}

func TestCreateFromList_CantidadNoPositiva(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "5", "2.50")
	uc := newOrderUseCase(s)

	_, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("0")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un stock de otra cuenta no es visible: 404, no 403.
func TestCreateFromList_StockDeOtraCuenta(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	foreignID := uuid.New().String()
	s.stocks[foreignID] = entity.Stock{
		ID: foreignID, BusinessAccountID: "otra-cuenta",
		Product: "Apple", Unit: "kg",
		Quantity: qty("10"), Price: qty("2.50"),
	}
	uc := newOrderUseCase(s)

	_, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{StockID: foreignID, Quantity: qty("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La descripción agrupa por producto y pluraliza.
func TestCreateFromList_DescripcionGenerada(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "10", "2.50")
	sugarID := seedStock(s, "Sugar", "kg", "10", "1.10")
	uc := newOrderUseCase(s)

	out, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items: []dto.OrderItemRequest{
			{StockID: appleID, Quantity: qty("3")},
			{StockID: sugarID, Quantity: qty("4.5")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "3 Apples, 4.5 Sugars", out.Description)
}

// ──────────────────────────────────────────────────────────────────────────
// Actualización FROM_LIST
// ──────────────────────────────────────────────────────────────────────────

// Re-agregar un ítem existente suma a la fila, nunca crea una segunda.
func TestUpdateFromList_MergeConExistente(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "10", "2.50")
	uc := newOrderUseCase(s)

	created, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("2")}},
	})
	require.NoError(t, err)

	out, err := uc.UpdateFromList(context.Background(), testBusinessID, created.ID, dto.UpdateOrderFromListRequest{
		Items: []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("3")}},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1, "debe seguir habiendo una sola fila por stock")
	assert.True(t, out.Items[0].Quantity.Equal(qty("5")))
	assert.Equal(t, "5 Apples", out.Description)
}

// La cantidad mergeada (existente + nueva) se valida contra el stock actual.
func TestUpdateFromList_MergeSuperaStock(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "5", "2.50")
	uc := newOrderUseCase(s)

	created, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("4")}},
	})
	require.NoError(t, err)

	_, err = uc.UpdateFromList(context.Background(), testBusinessID, created.ID, dto.UpdateOrderFromListRequest{
		Items: []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("2")}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Una orden CLOSED no admite ediciones ni borrado: conflicto de estado.
func TestUpdateFromList_OrdenCerrada(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "10", "2.50")
	uc := newOrderUseCase(s)

	created, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("2")}},
	})
	require.NoError(t, err)

	closed := s.orders[created.ID]
	closed.Status = entity.OrderStatusClosed
	s.orders[created.ID] = closed

	_, err = uc.UpdateFromList(context.Background(), testBusinessID, created.ID, dto.UpdateOrderFromListRequest{
		Items: []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	err = uc.Delete(context.Background(), testBusinessID, created.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

// ──────────────────────────────────────────────────────────────────────────
// Órdenes CUSTOM
// ──────────────────────────────────────────────────────────────────────────

func TestCreateCustom_CostoRequerido(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	uc := newOrderUseCase(s)

	_, err := uc.CreateCustom(context.Background(), testBusinessID, dto.CreateCustomOrderRequest{
		CustomerID:  customerID,
		Description: "Torta de cumpleaños",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negative := qty("-1")
	_, err = uc.CreateCustom(context.Background(), testBusinessID, dto.CreateCustomOrderRequest{
		CustomerID:  customerID,
		Description: "Torta de cumpleaños",
		Cost:        &negative,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateCustom_CostoEsElAcordado(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	uc := newOrderUseCase(s)

	cost := qty("150.00")
	out, err := uc.CreateCustom(context.Background(), testBusinessID, dto.CreateCustomOrderRequest{
		CustomerID:  customerID,
		Description: "Torta de cumpleaños",
		Cost:        &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderTypeCustom, out.OrderType)
	assert.True(t, out.Cost.Equal(cost))
	assert.Empty(t, out.Items)
}

// ──────────────────────────────────────────────────────────────────────────
// Impuestos en la lectura
// ──────────────────────────────────────────────────────────────────────────

// El desglose usa solo reglas activas y Total = round(cost + taxes, 2).
func TestGet_DesgloseDeImpuestos(t *testing.T) {
	s := newMemStore()
	customerID := seedCustomer(s)
	appleID := seedStock(s, "Apple", "kg", "100", "10.00")
	s.taxes["t1"] = entity.BusinessAccountTax{
		ID: "t1", BusinessAccountID: testBusinessID, Name: "VAT",
		Percentage: qty("15"), Active: true,
	}
	s.taxes["t2"] = entity.BusinessAccountTax{
		ID: "t2", BusinessAccountID: testBusinessID, Name: "Service",
		Percentage: qty("2.5"), Active: true,
	}
	s.taxes["t3"] = entity.BusinessAccountTax{
		ID: "t3", BusinessAccountID: testBusinessID, Name: "Old levy",
		Percentage: qty("99"), Active: false,
	}
	uc := newOrderUseCase(s)

	created, err := uc.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{StockID: appleID, Quantity: qty("10")}},
	})
	require.NoError(t, err)

	out, err := uc.Get(context.Background(), testBusinessID, created.ID)
	require.NoError(t, err)
	assert.True(t, out.Cost.Equal(qty("100")), "cost = 10 * 10.00")
	assert.Len(t, out.Taxes, 2, "la regla inactiva no participa")
	assert.True(t, out.TaxPercentage.Equal(qty("17.5")))
	assert.True(t, out.TaxAmount.Equal(qty("17.50")))
	assert.True(t, out.TotalAmount.Equal(qty("117.50")))
}
