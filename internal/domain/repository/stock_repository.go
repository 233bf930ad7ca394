package repository

import "github.com/lvaldez/bookkeeper-api/internal/domain/entity"

// StockRepository define el puerto de persistencia para Stock.
// La cantidad solo se muta vía el motor de inventario (dentro de una tx).
type StockRepository interface {
	Create(stock *entity.Stock) error
	GetByID(id string) (*entity.Stock, error)
	// GetByIDForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE)
	// para serializar ventas concurrentes sobre el mismo ítem.
	GetByIDForUpdate(id string) (*entity.Stock, error)
	ListByBusiness(businessAccountID string, limit, offset int) ([]*entity.Stock, error)
	Update(stock *entity.Stock) error
	Delete(id string) error
}

// SoldRepository define el puerto de persistencia para los acumuladores Sold.
type SoldRepository interface {
	Create(sold *entity.Sold) error
	GetByStockID(stockID string) (*entity.Sold, error)
	GetByStockIDForUpdate(stockID string) (*entity.Sold, error)
	Update(sold *entity.Sold) error
	ListByBusiness(businessAccountID string, limit, offset int) ([]*entity.Sold, error)
}
