package repository

import "github.com/lvaldez/bookkeeper-api/internal/domain/entity"

// TaxRepository define el puerto de persistencia para BusinessAccountTax.
type TaxRepository interface {
	Create(tax *entity.BusinessAccountTax) error
	GetByID(id string) (*entity.BusinessAccountTax, error)
	ListByBusiness(businessAccountID string) ([]*entity.BusinessAccountTax, error)
	// ListActiveByBusiness devuelve solo las reglas con active = true,
	// las únicas que participan en el cálculo de impuestos.
	ListActiveByBusiness(businessAccountID string) ([]*entity.BusinessAccountTax, error)
	Update(tax *entity.BusinessAccountTax) error
	Delete(id string) error
}
