package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	ordermath "github.com/lvaldez/bookkeeper-api/internal/domain/order"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
	"github.com/lvaldez/bookkeeper-api/internal/domain/tax"
)

// OrderUseCase casos de uso del agregado de órdenes: creación FROM_LIST y
// CUSTOM, consolidación de líneas duplicadas, costo e impuestos calculados,
// descripción autogenerada y la máquina de estados OPEN/CLOSED.
type OrderUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	stockRepo    repository.StockRepository
	customerRepo repository.CustomerRepository
	taxRepo      repository.TaxRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	customerRepo repository.CustomerRepository,
	taxRepo repository.TaxRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		stockRepo:    stockRepo,
		customerRepo: customerRepo,
		taxRepo:      taxRepo,
	}
}

// consolidated línea ya consolidada y validada contra el stock actual.
type consolidated struct {
	stock    *entity.Stock
	quantity decimal.Decimal
}

// CreateFromList crea una orden FROM_LIST: valida cada línea contra el stock
// disponible, consolida ítems duplicados del mismo envío (suma cantidades en
// una sola fila) y persiste cabecera y líneas en una transacción.
func (uc *OrderUseCase) CreateFromList(ctx context.Context, businessID string, in dto.CreateOrderFromListRequest) (*dto.OrderResponse, error) {
	customer, err := uc.ownedCustomer(businessID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("order_items", "este campo es requerido")
	}

	lines, err := uc.consolidate(businessID, in.Items, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		ID:                uuid.New().String(),
		BusinessAccountID: businessID,
		CustomerID:        customer.ID,
		OrderType:         entity.OrderTypeFromList,
		Description:       ordermath.Description(toMathLines(lines)),
		Status:            entity.OrderStatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	items := make([]*entity.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, &entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			StockID:   l.stock.ID,
			Quantity:  l.quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err = uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, item := range items {
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, items, customer)
}

// UpdateFromList agrega o consolida líneas en una orden FROM_LIST abierta.
// Re-agregar un ítem ya presente suma su cantidad a la fila existente (nunca
// hay dos filas para el mismo stock), re-validando la cantidad resultante
// contra el stock actual. Una orden CLOSED no admite cambios.
func (uc *OrderUseCase) UpdateFromList(ctx context.Context, businessID, orderID string, in dto.UpdateOrderFromListRequest) (*dto.OrderResponse, error) {
	order, err := uc.ownedOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanMutate() {
		return nil, domain.ErrStateConflict
	}
	if order.OrderType != entity.OrderTypeFromList {
		return nil, domain.NewValidationError("order_type", "la orden no es FROM_LIST")
	}

	existing, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	existingByStock := make(map[string]*entity.OrderItem, len(existing))
	for _, it := range existing {
		existingByStock[it.StockID] = it
	}

	lines, err := uc.consolidate(businessID, in.Items, existingByStock)
	if err != nil {
		return nil, err
	}

	customer, err := uc.ownedCustomer(businessID, orDefault(in.CustomerID, order.CustomerID))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.CustomerID = customer.ID
	order.UpdatedAt = now

	// Filas resultantes: existentes actualizadas + nuevas
	var toCreate, toUpdate []*entity.OrderItem
	for _, l := range lines {
		if it, ok := existingByStock[l.stock.ID]; ok {
			it.Quantity = l.quantity
			it.UpdatedAt = now
			toUpdate = append(toUpdate, it)
			continue
		}
		toCreate = append(toCreate, &entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			StockID:   l.stock.ID,
			Quantity:  l.quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err = uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		for _, it := range toUpdate {
			if err := orderRepo.UpdateItem(it); err != nil {
				return err
			}
		}
		for _, it := range toCreate {
			if err := orderRepo.CreateItem(it); err != nil {
				return err
			}
		}
		items, err := orderRepo.GetItems(order.ID)
		if err != nil {
			return err
		}
		desc, err := uc.describe(items)
		if err != nil {
			return err
		}
		order.Description = desc
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}

	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, items, customer)
}

// CreateCustom crea una orden CUSTOM: descripción libre y un precio total
// acordado (custom_cost, requerido y no negativo). Sin líneas de inventario.
func (uc *OrderUseCase) CreateCustom(ctx context.Context, businessID string, in dto.CreateCustomOrderRequest) (*dto.OrderResponse, error) {
	customer, err := uc.ownedCustomer(businessID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if in.Cost == nil {
		return nil, domain.NewValidationError("cost", "este campo es requerido")
	}
	if in.Cost.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("cost", "no puede ser negativo")
	}

	now := time.Now()
	cost := *in.Cost
	order := &entity.Order{
		ID:                uuid.New().String(),
		BusinessAccountID: businessID,
		CustomerID:        customer.ID,
		OrderType:         entity.OrderTypeCustom,
		Description:       in.Description,
		CustomCost:        &cost,
		Status:            entity.OrderStatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, nil, customer)
}

// UpdateCustom edita una orden CUSTOM abierta.
func (uc *OrderUseCase) UpdateCustom(ctx context.Context, businessID, orderID string, in dto.UpdateCustomOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.ownedOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanMutate() {
		return nil, domain.ErrStateConflict
	}
	if order.OrderType != entity.OrderTypeCustom {
		return nil, domain.NewValidationError("order_type", "la orden no es CUSTOM")
	}

	customer, err := uc.ownedCustomer(businessID, orDefault(in.CustomerID, order.CustomerID))
	if err != nil {
		return nil, err
	}
	order.CustomerID = customer.ID
	if in.Description != "" {
		order.Description = in.Description
	}
	if in.Cost != nil {
		if in.Cost.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError("cost", "no puede ser negativo")
		}
		cost := *in.Cost
		order.CustomCost = &cost
	}
	order.UpdatedAt = time.Now()

	err = uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, nil, customer)
}

// Delete borra una orden abierta con sus líneas. Una orden CLOSED no se
// puede borrar (conflicto de estado, no error de validación).
func (uc *OrderUseCase) Delete(ctx context.Context, businessID, orderID string) error {
	order, err := uc.ownedOrder(businessID, orderID)
	if err != nil {
		return err
	}
	if !order.CanMutate() {
		return domain.ErrStateConflict
	}
	return uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		if err := orderRepo.DeleteItemsByOrder(orderID); err != nil {
			return err
		}
		return orderRepo.Delete(orderID)
	})
}

// RemoveItem quita una línea de una orden FROM_LIST abierta y regenera la
// descripción.
func (uc *OrderUseCase) RemoveItem(ctx context.Context, businessID, orderID, itemID string) (*dto.OrderResponse, error) {
	order, err := uc.ownedOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanMutate() {
		return nil, domain.ErrStateConflict
	}
	items, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	var found bool
	for _, it := range items {
		if it.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	order.UpdatedAt = time.Now()
	err = uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository) error {
		if err := orderRepo.DeleteItem(itemID); err != nil {
			return err
		}
		rest, err := orderRepo.GetItems(orderID)
		if err != nil {
			return err
		}
		desc, err := uc.describe(rest)
		if err != nil {
			return err
		}
		order.Description = desc
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, businessID, orderID)
}

// Get devuelve el detalle de la orden con costo e impuestos calculados.
func (uc *OrderUseCase) Get(ctx context.Context, businessID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.ownedOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	customer, _ := uc.customerRepo.GetByID(order.CustomerID)
	return uc.toResponse(order, items, customer)
}

// List lista las órdenes de la cuenta, con filtro opcional por estado.
func (uc *OrderUseCase) List(ctx context.Context, businessID, status string, limit, offset int) ([]*dto.OrderResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.orderRepo.ListByBusiness(businessID, repository.OrderFilter{Status: status}, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items, err := uc.orderRepo.GetItems(o.ID)
		if err != nil {
			return nil, err
		}
		customer, _ := uc.customerRepo.GetByID(o.CustomerID)
		resp, err := uc.toResponse(o, items, customer)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// CloseInTx marca la orden como CLOSED usando el repositorio del caller
// (misma transacción de la liquidación). Idempotente: cerrar una orden ya
// cerrada no hace nada.
func (uc *OrderUseCase) CloseInTx(orderRepo repository.OrderRepository, order *entity.Order, now time.Time) error {
	if order.Status == entity.OrderStatusClosed {
		return nil
	}
	order.Status = entity.OrderStatusClosed
	order.UpdatedAt = now
	return orderRepo.Update(order)
}

// Cost calcula el costo vivo de la orden: FROM_LIST suma los subtotales
// redondeados de sus líneas; CUSTOM devuelve custom_cost tal cual.
func (uc *OrderUseCase) Cost(order *entity.Order, items []*entity.OrderItem) (decimal.Decimal, error) {
	if order.OrderType == entity.OrderTypeCustom {
		if order.CustomCost == nil {
			return decimal.Zero, nil
		}
		return *order.CustomCost, nil
	}
	lines, err := uc.valuedLines(items)
	if err != nil {
		return decimal.Zero, err
	}
	return ordermath.Cost(lines), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────

// consolidate agrupa el envío por stock (sumando duplicados), valida cada
// cantidad y la cantidad resultante (incluyendo lo ya presente en la orden)
// contra el stock disponible.
func (uc *OrderUseCase) consolidate(
	businessID string,
	items []dto.OrderItemRequest,
	existingByStock map[string]*entity.OrderItem,
) ([]consolidated, error) {
	merged := make(map[string]decimal.Decimal)
	var orderOfArrival []string
	for _, in := range items {
		if in.StockID == "" {
			return nil, domain.NewValidationError("item", "este campo es requerido")
		}
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if _, ok := merged[in.StockID]; !ok {
			orderOfArrival = append(orderOfArrival, in.StockID)
		}
		merged[in.StockID] = merged[in.StockID].Add(in.Quantity)
	}

	out := make([]consolidated, 0, len(orderOfArrival))
	for _, stockID := range orderOfArrival {
		stock, err := uc.stockRepo.GetByID(stockID)
		if err != nil {
			return nil, err
		}
		if stock == nil || stock.BusinessAccountID != businessID {
			return nil, domain.ErrNotFound
		}
		total := merged[stockID]
		if existing, ok := existingByStock[stockID]; ok {
			total = total.Add(existing.Quantity)
		}
		if total.GreaterThan(stock.Quantity) {
			return nil, &domain.InsufficientStockError{StockID: stock.ID, Product: stock.Product}
		}
		out = append(out, consolidated{stock: stock, quantity: total})
	}
	return out, nil
}

// valuedLines resuelve las líneas de la orden contra el stock actual.
func (uc *OrderUseCase) valuedLines(items []*entity.OrderItem) ([]ordermath.Line, error) {
	lines := make([]ordermath.Line, 0, len(items))
	for _, it := range items {
		stock, err := uc.stockRepo.GetByID(it.StockID)
		if err != nil {
			return nil, err
		}
		if stock == nil {
			// El stock fue borrado después de cerrar la orden; la línea ya
			// no participa del costo vivo (el histórico vive en SoldItem).
			continue
		}
		lines = append(lines, ordermath.Line{
			Product:  stock.Product,
			Unit:     stock.Unit,
			Quantity: it.Quantity,
			Price:    stock.Price,
		})
	}
	return lines, nil
}

func (uc *OrderUseCase) describe(items []*entity.OrderItem) (string, error) {
	lines, err := uc.valuedLines(items)
	if err != nil {
		return "", err
	}
	return ordermath.Description(lines), nil
}

func (uc *OrderUseCase) ownedOrder(businessID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (uc *OrderUseCase) ownedCustomer(businessID, customerID string) (*entity.Customer, error) {
	if customerID == "" {
		return nil, domain.NewValidationError("customer", "este campo es requerido")
	}
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (uc *OrderUseCase) toResponse(order *entity.Order, items []*entity.OrderItem, customer *entity.Customer) (*dto.OrderResponse, error) {
	cost, err := uc.Cost(order, items)
	if err != nil {
		return nil, err
	}
	rules, err := uc.activeTaxes(order.BusinessAccountID)
	if err != nil {
		return nil, err
	}
	breakdown := tax.Compute(cost, rules)

	resp := &dto.OrderResponse{
		ID:            order.ID,
		OrderType:     order.OrderType,
		Description:   order.Description,
		Cost:          cost,
		Taxes:         toTaxLines(breakdown),
		TaxPercentage: breakdown.TaxPercentage,
		TaxAmount:     breakdown.TaxAmount,
		TotalAmount:   breakdown.TotalAmount,
		Status:        order.Status,
		Items:         []dto.OrderItemResponse{},
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if customer != nil {
		resp.Customer = &dto.CustomerResponse{
			ID:          customer.ID,
			Name:        customer.Name,
			PhoneNumber: customer.PhoneNumber,
			Email:       customer.Email,
			CreatedAt:   customer.CreatedAt,
			UpdatedAt:   customer.UpdatedAt,
		}
	}
	for _, it := range items {
		stock, err := uc.stockRepo.GetByID(it.StockID)
		if err != nil {
			return nil, err
		}
		if stock == nil {
			continue
		}
		line := ordermath.Line{Product: stock.Product, Unit: stock.Unit, Quantity: it.Quantity, Price: stock.Price}
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:        it.ID,
			StockID:   it.StockID,
			Product:   stock.Product,
			Unit:      stock.Unit,
			Quantity:  it.Quantity,
			Subtotal:  line.Subtotal(),
			UpdatedAt: it.UpdatedAt,
		})
	}
	return resp, nil
}

func (uc *OrderUseCase) activeTaxes(businessID string) ([]entity.BusinessAccountTax, error) {
	rules, err := uc.taxRepo.ListActiveByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.BusinessAccountTax, 0, len(rules))
	for _, r := range rules {
		out = append(out, *r)
	}
	return out, nil
}

func toTaxLines(b tax.Breakdown) []dto.TaxLineResponse {
	out := make([]dto.TaxLineResponse, 0, len(b.Taxes))
	for _, t := range b.Taxes {
		out = append(out, dto.TaxLineResponse{Name: t.Name, Percentage: t.Percentage, Amount: t.Amount})
	}
	return out
}

func toMathLines(lines []consolidated) []ordermath.Line {
	out := make([]ordermath.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, ordermath.Line{
			Product:  l.stock.Product,
			Unit:     l.stock.Unit,
			Quantity: l.quantity,
			Price:    l.stock.Price,
		})
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
