package customers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// CustomerUseCase CRUD del directorio de clientes de la cuenta.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// Create agrega un cliente al directorio.
func (uc *CustomerUseCase) Create(ctx context.Context, businessID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "este campo es requerido")
	}
	if in.PhoneNumber == "" {
		return nil, domain.NewValidationError("phone_number", "este campo es requerido")
	}
	now := time.Now()
	c := &entity.Customer{
		ID:                uuid.New().String(),
		BusinessAccountID: businessID,
		Name:              in.Name,
		PhoneNumber:       in.PhoneNumber,
		Email:             in.Email,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.customerRepo.Create(c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Get obtiene un cliente verificando pertenencia.
func (uc *CustomerUseCase) Get(ctx context.Context, businessID, customerID string) (*dto.CustomerResponse, error) {
	c, err := uc.owned(businessID, customerID)
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// List lista el directorio de la cuenta.
func (uc *CustomerUseCase) List(ctx context.Context, businessID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.customerRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toResponse(c))
	}
	return out, nil
}

// Update edita los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, businessID, customerID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.owned(businessID, customerID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.PhoneNumber != "" {
		c.PhoneNumber = in.PhoneNumber
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	c.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Delete borra el cliente del directorio.
func (uc *CustomerUseCase) Delete(ctx context.Context, businessID, customerID string) error {
	if _, err := uc.owned(businessID, customerID); err != nil {
		return err
	}
	return uc.customerRepo.Delete(customerID)
}

func (uc *CustomerUseCase) owned(businessID, customerID string) (*entity.Customer, error) {
	c, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func toResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
