package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/application/inventory"
	"github.com/lvaldez/bookkeeper-api/internal/application/notifications"
	"github.com/lvaldez/bookkeeper-api/internal/application/orders"
	"github.com/lvaldez/bookkeeper-api/internal/application/payments"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

const testBusinessID = "00000000-0000-0000-0000-0000000000b1"

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────

type memStore struct {
	stocks        map[string]entity.Stock
	solds         map[string]entity.Sold
	customers     map[string]entity.Customer
	taxes         map[string]entity.BusinessAccountTax
	orders        map[string]entity.Order
	items         map[string]entity.OrderItem
	payments      map[string]entity.Payment
	soldItems     map[string]entity.SoldItem
	notifications map[string]entity.Notification
}

func newMemStore() *memStore {
	return &memStore{
		stocks:        map[string]entity.Stock{},
		solds:         map[string]entity.Sold{},
		customers:     map[string]entity.Customer{},
		taxes:         map[string]entity.BusinessAccountTax{},
		orders:        map[string]entity.Order{},
		items:         map[string]entity.OrderItem{},
		payments:      map[string]entity.Payment{},
		soldItems:     map[string]entity.SoldItem{},
		notifications: map[string]entity.Notification{},
	}
}

// snapshot copia superficial de todos los mapas, suficiente para simular el
// rollback de la transacción (las fakes guardan valores, no punteros).
func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.stocks {
		cp.stocks[k] = v
	}
	for k, v := range s.solds {
		cp.solds[k] = v
	}
	for k, v := range s.customers {
		cp.customers[k] = v
	}
	for k, v := range s.taxes {
		cp.taxes[k] = v
	}
	for k, v := range s.orders {
		cp.orders[k] = v
	}
	for k, v := range s.items {
		cp.items[k] = v
	}
	for k, v := range s.payments {
		cp.payments[k] = v
	}
	for k, v := range s.soldItems {
		cp.soldItems[k] = v
	}
	for k, v := range s.notifications {
		cp.notifications[k] = v
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.stocks = from.stocks
	s.solds = from.solds
	s.customers = from.customers
	s.taxes = from.taxes
	s.orders = from.orders
	s.items = from.items
	s.payments = from.payments
	s.soldItems = from.soldItems
	s.notifications = from.notifications
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

type memSoldRepo struct{ s *memStore }

func (r *memSoldRepo) Create(sold *entity.Sold) error { r.s.solds[sold.ID] = *sold; return nil }
func (r *memSoldRepo) GetByStockID(stockID string) (*entity.Sold, error) {
	for _, sold := range r.s.solds {
		if sold.StockID == stockID {
			cp := sold
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memSoldRepo) GetByStockIDForUpdate(stockID string) (*entity.Sold, error) {
	return r.GetByStockID(stockID)
}
func (r *memSoldRepo) Update(sold *entity.Sold) error { r.s.solds[sold.ID] = *sold; return nil }
func (r *memSoldRepo) ListByBusiness(string, int, int) ([]*entity.Sold, error) {
	return nil, nil
}

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
	var out []*entity.BusinessAccountTax
	for _, t := range r.s.taxes {
		if t.BusinessAccountID == businessID {
			cp := t
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *memTaxRepo) ListActiveByBusiness(businessID string) ([]*entity.BusinessAccountTax, error) {
	var out []*entity.BusinessAccountTax
	for _, t := range r.s.taxes {
		if t.BusinessAccountID == businessID && t.Active {
			cp := t
			out = append(out, &cp)
		}
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

type memPaymentRepo struct{ s *memStore }

func (r *memPaymentRepo) Create(p *entity.Payment) error { r.s.payments[p.ID] = *p; return nil }
func (r *memPaymentRepo) Update(p *entity.Payment) error { r.s.payments[p.ID] = *p; return nil }
func (r *memPaymentRepo) GetByID(id string) (*entity.Payment, error) {
	if p, ok := r.s.payments[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}
func (r *memPaymentRepo) GetByOrderID(orderID string) (*entity.Payment, error) {
	for _, p := range r.s.payments {
		if p.OrderID == orderID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memPaymentRepo) ListByBusiness(businessID string, filter repository.PaymentFilter, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments {
		order, ok := r.s.orders[p.OrderID]
		if !ok || order.BusinessAccountID != businessID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ModeOfPayment != "" && p.ModeOfPayment != filter.ModeOfPayment {
			continue
		}
		if filter.OrderID != "" && p.OrderID != filter.OrderID {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memPaymentRepo) CreateSoldItem(it *entity.SoldItem) error {
	r.s.soldItems[it.ID] = *it
	return nil
}
func (r *memPaymentRepo) GetSoldItems(paymentID string) ([]*entity.SoldItem, error) {
	var out []*entity.SoldItem
	for _, it := range r.s.soldItems {
		if it.PaymentID == paymentID {
			cp := it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memNotificationRepo struct{ s *memStore }

func (r *memNotificationRepo) Create(n *entity.Notification) error {
	r.s.notifications[n.ID] = *n
	return nil
}
func (r *memNotificationRepo) GetByActionURL(businessID, notificationType, actionURL string) (*entity.Notification, error) {
	for _, n := range r.s.notifications {
		if n.BusinessAccountID == businessID && n.NotificationType == notificationType && n.ActionURL == actionURL {
			cp := n
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memNotificationRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.BusinessAccountID == businessID {
			cp := n
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *memNotificationRepo) GetByID(id string) (*entity.Notification, error) {
	if n, ok := r.s.notifications[id]; ok {
		cp := n
		return &cp, nil
	}
	return nil, nil
}
func (r *memNotificationRepo) MarkSeen(id string) error {
	if n, ok := r.s.notifications[id]; ok {
		n.IsSeen = true
		r.s.notifications[id] = n
	}
	return nil
}

// fakeTxRunner implementa los tres puertos de transacción. RunSettlement
// simula el rollback restaurando el snapshot del store si el callback falla.
type fakeTxRunner struct{ s *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.StockRepository, repository.SoldRepository) error) error {
	return fn(&memStockRepo{s: r.s}, &memSoldRepo{s: r.s})
}

func (r *fakeTxRunner) RunOrder(_ context.Context, fn func(repository.OrderRepository) error) error {
	return fn(&memOrderRepo{s: r.s})
}

func (r *fakeTxRunner) RunSettlement(_ context.Context, fn func(
	repository.StockRepository,
	repository.SoldRepository,
	repository.OrderRepository,
	repository.PaymentRepository,
	repository.NotificationRepository,
) error) error {
	before := r.s.snapshot()
	err := fn(
		&memStockRepo{s: r.s},
		&memSoldRepo{s: r.s},
		&memOrderRepo{s: r.s},
		&memPaymentRepo{s: r.s},
		&memNotificationRepo{s: r.s},
	)
	if err != nil {
		r.s.restore(before)
	}
	return err
}

// fakeReceiptGenerator devuelve un PDF de mentira.
type fakeReceiptGenerator struct{ last payments.Receipt }

func (g *fakeReceiptGenerator) Generate(receipt payments.Receipt) ([]byte, error) {
	g.last = receipt
	return []byte("%PDF-fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────

// fixture arma el caso de uso de pagos con sus colaboradores reales sobre
// los repositorios en memoria.
type fixture struct {
	s        *memStore
	receipts *fakeReceiptGenerator
	orderUC  *orders.OrderUseCase
	uc       *payments.PaymentUseCase
}

func newFixture() *fixture {
	s := newMemStore()
	runner := &fakeTxRunner{s: s}
	stockRepo := &memStockRepo{s: s}
	soldRepo := &memSoldRepo{s: s}
	orderRepo := &memOrderRepo{s: s}
	paymentRepo := &memPaymentRepo{s: s}
	customerRepo := &memCustomerRepo{s: s}
	taxRepo := &memTaxRepo{s: s}
	notificationRepo := &memNotificationRepo{s: s}

	stockUC := inventory.NewStockUseCase(runner, stockRepo, soldRepo)
	orderUC := orders.NewOrderUseCase(runner, orderRepo, stockRepo, customerRepo, taxRepo)
	notificationUC := notifications.NewNotificationUseCase(notificationRepo)
	receipts := &fakeReceiptGenerator{}
	uc := payments.NewPaymentUseCase(
		runner, paymentRepo, orderRepo, customerRepo, taxRepo,
		stockUC, orderUC, notificationUC, receipts,
	)
	return &fixture{s: s, receipts: receipts, orderUC: orderUC, uc: uc}
}

func (f *fixture) seedCustomer(name string) string {
	id := uuid.New().String()
	f.s.customers[id] = entity.Customer{
		ID: id, BusinessAccountID: testBusinessID, Name: name, PhoneNumber: "+5491100000001",
	}
	return id
}

// seedStock crea el stock con su acumulador Sold en cero, como hace el alta
// real de inventario.
func (f *fixture) seedStock(product, unit, quantity, price string) string {
	id := uuid.New().String()
	f.s.stocks[id] = entity.Stock{
		ID:                id,
		BusinessAccountID: testBusinessID,
		Product:           product,
		Unit:              unit,
		Quantity:          qty(quantity),
		Price:             qty(price),
	}
	soldID := uuid.New().String()
	f.s.solds[soldID] = entity.Sold{
		ID: soldID, StockID: id, Quantity: decimal.Zero,
	}
	return id
}

func (f *fixture) createOrder(t *testing.T, customerID string, items ...dto.OrderItemRequest) string {
	t.Helper()
	out, err := f.orderUC.CreateFromList(context.Background(), testBusinessID, dto.CreateOrderFromListRequest{
		CustomerID: customerID,
		Items:      items,
	})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) createPayment(t *testing.T, orderID, mode, payLater string) string {
	t.Helper()
	out, err := f.uc.Create(context.Background(), testBusinessID, dto.CreatePaymentRequest{
		OrderID:       orderID,
		ModeOfPayment: mode,
		PayLaterDate:  payLater,
	})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) stockQuantity(stockID string) decimal.Decimal {
	return f.s.stocks[stockID].Quantity
}

func (f *fixture) soldQuantity(stockID string) decimal.Decimal {
	for _, sold := range f.s.solds {
		if sold.StockID == stockID {
			return sold.Quantity
		}
	}
	return decimal.Zero
}

// ──────────────────────────────────────────────────────────────────────────
// Alta del pago
// ──────────────────────────────────────────────────────────────────────────

// Cada orden admite exactamente un pago.
func TestCreate_PagoDuplicado(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("2")})

	f.createPayment(t, orderID, entity.PaymentModeCash, "")

	_, err := f.uc.Create(context.Background(), testBusinessID, dto.CreatePaymentRequest{
		OrderID:       orderID,
		ModeOfPayment: entity.PaymentModeBank,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// CREDIT exige pay_later_date de hoy o futura en formato yyyy-mm-dd.
func TestCreate_CreditoValidaFecha(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")

	cases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"sin fecha", "", true},
		{"formato inválido", "15/01/2030", true},
		{"en el pasado", "2020-01-15", true},
		{"hoy", time.Now().Format("2006-01-02"), false},
		{"futura", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("1")})
			_, err := f.uc.Create(context.Background(), testBusinessID, dto.CreatePaymentRequest{
				OrderID:       orderID,
				ModeOfPayment: entity.PaymentModeCredit,
				PayLaterDate:  tc.date,
			})
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// La fecha enviada con un modo que no es CREDIT se descarta.
func TestCreate_FechaIgnoradaSinCredito(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("1")})

	out, err := f.uc.Create(context.Background(), testBusinessID, dto.CreatePaymentRequest{
		OrderID:       orderID,
		ModeOfPayment: entity.PaymentModeCash,
		PayLaterDate:  "2020-01-01", // inválida, pero irrelevante para CASH
	})
	require.NoError(t, err)
	assert.Nil(t, out.PayLaterDate)
}

// Editar un pago CREDIT sin reenviar la fecha conserva la que ya tiene.
func TestUpdate_CreditoConservaFecha(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("1")})
	dueDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCredit, dueDate)

	out, err := f.uc.Update(context.Background(), testBusinessID, paymentID, dto.UpdatePaymentRequest{})
	require.NoError(t, err)
	require.NotNil(t, out.PayLaterDate)
	assert.Equal(t, dueDate, *out.PayLaterDate)

	// Reenviar una fecha nueva sí la reemplaza.
	newDate := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	out, err = f.uc.Update(context.Background(), testBusinessID, paymentID, dto.UpdatePaymentRequest{
		PayLaterDate: newDate,
	})
	require.NoError(t, err)
	require.NotNil(t, out.PayLaterDate)
	assert.Equal(t, newDate, *out.PayLaterDate)
}

// Cambiar a CREDIT un pago que nunca tuvo fecha sigue exigiéndola.
func TestUpdate_CambioACreditoSinFecha(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("1")})
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	_, err := f.uc.Update(context.Background(), testBusinessID, paymentID, dto.UpdatePaymentRequest{
		ModeOfPayment: entity.PaymentModeCredit,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cambiar de CREDIT a otro modo descarta la fecha.
func TestUpdate_SalirDeCreditoLimpiaFecha(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("1")})
	dueDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCredit, dueDate)

	out, err := f.uc.Update(context.Background(), testBusinessID, paymentID, dto.UpdatePaymentRequest{
		ModeOfPayment: entity.PaymentModeCash,
	})
	require.NoError(t, err)
	assert.Nil(t, out.PayLaterDate)
}

// ──────────────────────────────────────────────────────────────────────────
// Liquidación (Complete)
// ──────────────────────────────────────────────────────────────────────────

// Camino completo: descuenta stock, acumula ventas, congela instantáneas al
// precio del momento, cierra la orden y completa el pago.
func TestComplete_LiquidacionCompleta(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	sugarID := f.seedStock("Sugar", "kg", "8", "1.10")
	orderID := f.createOrder(t, customerID,
		dto.OrderItemRequest{StockID: appleID, Quantity: qty("3")},
		dto.OrderItemRequest{StockID: sugarID, Quantity: qty("2")},
	)
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	// El precio sube entre la orden y el cobro: la instantánea congela el
	// precio vigente al momento de la venta.
	apple := f.s.stocks[appleID]
	apple.Price = qty("3.00")
	f.s.stocks[appleID] = apple

	out, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusCompleted, out.Status)
	assert.Equal(t, entity.OrderStatusClosed, f.s.orders[orderID].Status, "la orden debe quedar CLOSED")

	assert.True(t, f.stockQuantity(appleID).Equal(qty("7")), "10 - 3")
	assert.True(t, f.stockQuantity(sugarID).Equal(qty("6")), "8 - 2")
	assert.True(t, f.soldQuantity(appleID).Equal(qty("3")))
	assert.True(t, f.soldQuantity(sugarID).Equal(qty("2")))

	require.Len(t, out.SoldItems, 2)
	byProduct := map[string]dto.SoldItemResponse{}
	for _, it := range out.SoldItems {
		byProduct[it.Product] = it
	}
	assert.True(t, byProduct["Apple"].Price.Equal(qty("3.00")), "precio congelado al del momento de la venta")
	assert.True(t, byProduct["Sugar"].Price.Equal(qty("1.10")))

	// order_amount congelado: 3*3.00 + 2*1.10 = 11.20
	assert.True(t, out.OrderAmount.Equal(qty("11.20")), "order_amount = %s", out.OrderAmount)
}

// El monto congelado no sigue cambios de precio posteriores al cobro.
func TestComplete_MontoCongelado(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("4")})
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	_, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)

	apple := f.s.stocks[appleID]
	apple.Price = qty("99.99")
	f.s.stocks[appleID] = apple

	out, err := f.uc.Get(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)
	assert.True(t, out.OrderAmount.Equal(qty("10.00")), "4 * 2.50 congelado; got %s", out.OrderAmount)
}

// COMPLETED es terminal: un segundo Complete es conflicto de estado.
func TestComplete_DobleComplete(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("3")})
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	_, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), testBusinessID, paymentID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	// El inventario se descontó exactamente una vez.
	assert.True(t, f.stockQuantity(appleID).Equal(qty("7")))
}

// Si una venta concurrente dejó el stock corto, toda la liquidación se
// revierte: ni descuento parcial, ni instantáneas, ni orden cerrada, ni
// pago completado.
func TestComplete_RollbackTodoONada(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	sugarID := f.seedStock("Sugar", "kg", "8", "1.10")
	orderID := f.createOrder(t, customerID,
		dto.OrderItemRequest{StockID: appleID, Quantity: qty("3")},
		dto.OrderItemRequest{StockID: sugarID, Quantity: qty("5")},
	)
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	// Otra venta deja el azúcar corto entre la orden y el cobro.
	sugar := f.s.stocks[sugarID]
	sugar.Quantity = qty("1")
	f.s.stocks[sugarID] = sugar

	_, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInventoryRace)

	assert.True(t, f.stockQuantity(appleID).Equal(qty("10")), "el descuento de Apple debe revertirse")
	assert.True(t, f.soldQuantity(appleID).IsZero())
	assert.Empty(t, f.s.soldItems, "sin instantáneas tras el rollback")
	assert.Equal(t, entity.OrderStatusOpen, f.s.orders[orderID].Status)
	assert.Equal(t, entity.PaymentStatusPending, f.s.payments[paymentID].Status)

	// El pago sigue PENDING: puede reintentarse cuando haya stock.
	sugar = f.s.stocks[sugarID]
	sugar.Quantity = qty("8")
	f.s.stocks[sugarID] = sugar

	out, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, out.Status)
}

// CUSTOM: una sola instantánea con la descripción y el precio acordado; no
// toca inventario.
func TestComplete_OrdenCustom(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	cost := qty("150.00")
	created, err := f.orderUC.CreateCustom(context.Background(), testBusinessID, dto.CreateCustomOrderRequest{
		CustomerID:  customerID,
		Description: "Torta de cumpleaños",
		Cost:        &cost,
	})
	require.NoError(t, err)
	paymentID := f.createPayment(t, created.ID, entity.PaymentModeCard, "")

	out, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)

	require.Len(t, out.SoldItems, 1)
	item := out.SoldItems[0]
	assert.Equal(t, "Torta de cumpleaños", item.Product)
	assert.Equal(t, entity.UnitPiece, item.Unit)
	assert.True(t, item.Quantity.Equal(qty("1")))
	assert.True(t, item.Price.Equal(cost))
	assert.True(t, out.OrderAmount.Equal(cost))
}

// ──────────────────────────────────────────────────────────────────────────
// Recordatorio de crédito
// ──────────────────────────────────────────────────────────────────────────

// Completar un pago CREDIT emite exactamente un recordatorio; la clave de
// idempotencia evita duplicados.
func TestComplete_CreditoEmiteRecordatorio(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Laura")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("2")})
	dueDate := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCredit, dueDate)

	_, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)

	require.Len(t, f.s.notifications, 1)
	var n entity.Notification
	for _, v := range f.s.notifications {
		n = v
	}
	assert.Equal(t, entity.NotificationTypePaymentReminder, n.NotificationType)
	assert.Equal(t, "Receive payment for your order to Laura", n.ActionMessage)
	assert.Equal(t, "Payment due date", n.ActionDateLabel)
	assert.Contains(t, n.ActionURL, paymentID)
	assert.False(t, n.IsSeen)
	require.NotNil(t, n.ActionDate)
	assert.Equal(t, dueDate, n.ActionDate.Format("2006-01-02"))

	// Re-emitir con la misma clave no duplica.
	notifUC := notifications.NewNotificationUseCase(&memNotificationRepo{s: f.s})
	_, err = notifUC.PayLaterReminderInTx(
		&memNotificationRepo{s: f.s}, testBusinessID, "Laura", n.ActionURL, *n.ActionDate, time.Now(),
	)
	require.NoError(t, err)
	assert.Len(t, f.s.notifications, 1, "la clave (cuenta, tipo, action_url) es idempotente")
}

// Los modos que no son CREDIT no emiten recordatorio.
func TestComplete_SinRecordatorioParaCash(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("2")})
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	_, err := f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)
	assert.Empty(t, f.s.notifications)
}

// ──────────────────────────────────────────────────────────────────────────
// Rama FAILED y lecturas
// ──────────────────────────────────────────────────────────────────────────

// FAILED es terminal y no toca inventario ni el estado de la orden.
func TestMarkFailed(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("3")})
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	out, err := f.uc.MarkFailed(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, out.Status)
	assert.True(t, f.stockQuantity(appleID).Equal(qty("10")))
	assert.Equal(t, entity.OrderStatusOpen, f.s.orders[orderID].Status)

	_, err = f.uc.Complete(context.Background(), testBusinessID, paymentID)
	assert.ErrorIs(t, err, domain.ErrStateConflict, "FAILED es terminal")
}

// La vista de ventas solo lista pagos COMPLETED.
func TestListSales_SoloCompletados(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "20", "2.50")

	completedOrder := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("2")})
	completedPayment := f.createPayment(t, completedOrder, entity.PaymentModeCash, "")
	_, err := f.uc.Complete(context.Background(), testBusinessID, completedPayment)
	require.NoError(t, err)

	pendingOrder := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("1")})
	f.createPayment(t, pendingOrder, entity.PaymentModeCash, "")

	sales, err := f.uc.ListSales(context.Background(), testBusinessID, 20, 0)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, completedPayment, sales[0].ID)
}

// El comprobante solo existe para pagos COMPLETED.
func TestReceipt_SoloCompletados(t *testing.T) {
	f := newFixture()
	customerID := f.seedCustomer("Ana")
	appleID := f.seedStock("Apple", "kg", "10", "2.50")
	orderID := f.createOrder(t, customerID, dto.OrderItemRequest{StockID: appleID, Quantity: qty("2")})
	paymentID := f.createPayment(t, orderID, entity.PaymentModeCash, "")

	_, err := f.uc.Receipt(context.Background(), testBusinessID, paymentID)
	assert.ErrorIs(t, err, domain.ErrStateConflict, "PENDING no tiene comprobante")

	_, err = f.uc.Complete(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)

	pdf, err := f.uc.Receipt(context.Background(), testBusinessID, paymentID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "Ana", f.receipts.last.CustomerName)
	assert.True(t, f.receipts.last.OrderAmount.Equal(qty("5.00")))
}
