package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// StockUseCase casos de uso de inventario: CRUD de stock y la operación de
// venta (el único camino que muta Stock.Quantity y Sold.Quantity).
type StockUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	soldRepo  repository.SoldRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	soldRepo repository.SoldRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		soldRepo:  soldRepo,
	}
}

// Create crea un Stock y su fila Sold emparejada en la misma transacción
// (paso explícito del constructor, sin hooks implícitos).
func (uc *StockUseCase) Create(ctx context.Context, businessID string, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	if in.Product == "" {
		return nil, domain.NewValidationError("product", "este campo es requerido")
	}
	if !entity.IsValidUnit(in.Unit) {
		return nil, domain.NewValidationError("unit", "unidad de medida desconocida")
	}
	if in.Quantity.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}

	now := time.Now()
	stock := &entity.Stock{
		ID:                uuid.New().String(),
		BusinessAccountID: businessID,
		Product:           in.Product,
		Unit:              in.Unit,
		Quantity:          in.Quantity,
		Price:             in.Price,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	sold := &entity.Sold{
		ID:        uuid.New().String(),
		StockID:   stock.ID,
		Quantity:  decimal.Zero,
		SalesDate: now,
	}

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		soldRepo repository.SoldRepository,
	) error {
		if err := stockRepo.Create(stock); err != nil {
			return err
		}
		return soldRepo.Create(sold)
	})
	if err != nil {
		return nil, err
	}
	return toStockResponse(stock), nil
}

// Get obtiene un ítem de inventario verificando pertenencia.
func (uc *StockUseCase) Get(ctx context.Context, businessID, stockID string) (*dto.StockResponse, error) {
	stock, err := uc.ownedStock(businessID, stockID)
	if err != nil {
		return nil, err
	}
	return toStockResponse(stock), nil
}

// List lista el inventario de la cuenta.
func (uc *StockUseCase) List(ctx context.Context, businessID string, limit, offset int) ([]*dto.StockResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	stocks, err := uc.stockRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, toStockResponse(s))
	}
	return out, nil
}

// Update edita producto, unidad y precio. La cantidad no se toca por acá:
// solo la venta la muta.
func (uc *StockUseCase) Update(ctx context.Context, businessID, stockID string, in dto.UpdateStockRequest) (*dto.StockResponse, error) {
	stock, err := uc.ownedStock(businessID, stockID)
	if err != nil {
		return nil, err
	}
	if in.Product != "" {
		stock.Product = in.Product
	}
	if in.Unit != "" {
		if !entity.IsValidUnit(in.Unit) {
			return nil, domain.NewValidationError("unit", "unidad de medida desconocida")
		}
		stock.Unit = in.Unit
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError("price", "no puede ser negativo")
		}
		stock.Price = *in.Price
	}
	stock.UpdatedAt = time.Now()
	if err := uc.stockRepo.Update(stock); err != nil {
		return nil, err
	}
	return toStockResponse(stock), nil
}

// Delete borra un ítem de inventario (las instantáneas SoldItem de ventas
// pasadas no dependen de él).
func (uc *StockUseCase) Delete(ctx context.Context, businessID, stockID string) error {
	if _, err := uc.ownedStock(businessID, stockID); err != nil {
		return err
	}
	return uc.stockRepo.Delete(stockID)
}

// ListSold lista los acumuladores de ventas del inventario de la cuenta.
func (uc *StockUseCase) ListSold(ctx context.Context, businessID string, limit, offset int) ([]*dto.SoldResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	solds, err := uc.soldRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SoldResponse, 0, len(solds))
	for _, s := range solds {
		stock, err := uc.stockRepo.GetByID(s.StockID)
		if err != nil || stock == nil {
			continue
		}
		out = append(out, &dto.SoldResponse{
			ID:        s.ID,
			Product:   stock.Product,
			Unit:      stock.Unit,
			Quantity:  s.Quantity,
			Price:     stock.Price,
			SalesDate: s.SalesDate,
		})
	}
	return out, nil
}

// SellInTx ejecuta una venta usando los repositorios del caller (misma
// transacción): bloquea la fila del stock (SELECT FOR UPDATE), verifica la
// precondición quantity <= stock.Quantity, descuenta del stock e incrementa
// el acumulador Sold. Ambas escrituras comparten la tx del caller: o las dos
// quedan o ninguna.
//
// La precondición ya se validó al crear la orden, pero acá falla cerrado:
// si otra venta concurrente dejó el stock corto, retorna ErrInventoryRace y
// el caller debe hacer rollback completo.
//
// Devuelve el Stock tal como estaba al momento de la venta para que el
// caller congele producto/unidad/precio en la instantánea.
func (uc *StockUseCase) SellInTx(
	stockRepo repository.StockRepository,
	soldRepo repository.SoldRepository,
	stockID string,
	quantity decimal.Decimal,
	now time.Time,
) (*entity.Stock, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	stock, err := stockRepo.GetByIDForUpdate(stockID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	if stock.Quantity.LessThan(quantity) {
		return nil, domain.ErrInventoryRace
	}

	snapshot := *stock

	stock.Quantity = stock.Quantity.Sub(quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Update(stock); err != nil {
		return nil, err
	}

	sold, err := soldRepo.GetByStockIDForUpdate(stockID)
	if err != nil {
		return nil, err
	}
	if sold == nil {
		return nil, domain.ErrNotFound
	}
	sold.Quantity = sold.Quantity.Add(quantity)
	sold.SalesDate = now
	if err := soldRepo.Update(sold); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (uc *StockUseCase) ownedStock(businessID, stockID string) (*entity.Stock, error) {
	stock, err := uc.stockRepo.GetByID(stockID)
	if err != nil {
		return nil, err
	}
	if stock == nil || stock.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	return stock, nil
}

func toStockResponse(s *entity.Stock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:        s.ID,
		Product:   s.Product,
		Unit:      s.Unit,
		Quantity:  s.Quantity,
		Price:     s.Price,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
