package taxes

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

// TaxUseCase CRUD de reglas de impuesto de la cuenta de negocio.
type TaxUseCase struct {
	taxRepo repository.TaxRepository
}

// NewTaxUseCase construye el caso de uso.
func NewTaxUseCase(taxRepo repository.TaxRepository) *TaxUseCase {
	return &TaxUseCase{taxRepo: taxRepo}
}

// Create crea una regla de impuesto. Nace activa salvo que el body diga lo
// contrario.
func (uc *TaxUseCase) Create(ctx context.Context, businessID string, in dto.TaxRequest) (*dto.TaxResponse, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "este campo es requerido")
	}
	if in.Percentage.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("percentage", "no puede ser negativo")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now()
	t := &entity.BusinessAccountTax{
		ID:                uuid.New().String(),
		BusinessAccountID: businessID,
		Name:              in.Name,
		Percentage:        in.Percentage.Round(2),
		Active:            active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.taxRepo.Create(t); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// List lista las reglas de la cuenta (activas e inactivas).
func (uc *TaxUseCase) List(ctx context.Context, businessID string) ([]*dto.TaxResponse, error) {
	list, err := uc.taxRepo.ListByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TaxResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toResponse(t))
	}
	return out, nil
}

// Update edita nombre, porcentaje o estado activo de la regla.
func (uc *TaxUseCase) Update(ctx context.Context, businessID, taxID string, in dto.TaxRequest) (*dto.TaxResponse, error) {
	t, err := uc.owned(businessID, taxID)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "este campo es requerido")
	}
	if in.Percentage.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("percentage", "no puede ser negativo")
	}
	t.Name = in.Name
	t.Percentage = in.Percentage.Round(2)
	if in.Active != nil {
		t.Active = *in.Active
	}
	t.UpdatedAt = time.Now()
	if err := uc.taxRepo.Update(t); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// Delete borra la regla. Los desgloses ya congelados no se recalculan.
func (uc *TaxUseCase) Delete(ctx context.Context, businessID, taxID string) error {
	if _, err := uc.owned(businessID, taxID); err != nil {
		return err
	}
	return uc.taxRepo.Delete(taxID)
}

func (uc *TaxUseCase) owned(businessID, taxID string) (*entity.BusinessAccountTax, error) {
	t, err := uc.taxRepo.GetByID(taxID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func toResponse(t *entity.BusinessAccountTax) *dto.TaxResponse {
	return &dto.TaxResponse{
		ID:         t.ID,
		Name:       t.Name,
		Percentage: t.Percentage,
		Active:     t.Active,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
