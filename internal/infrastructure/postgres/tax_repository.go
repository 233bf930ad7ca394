package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

var _ repository.TaxRepository = (*TaxRepo)(nil)

// TaxRepo implementación de TaxRepository sobre PostgreSQL (usable con pool o tx).
type TaxRepo struct {
	q Querier
}

// NewTaxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxRepository(q Querier) *TaxRepo {
	return &TaxRepo{q: q}
}

const taxColumns = `id, business_account_id, name, percentage, active, created_at, updated_at`

// Create persiste una regla de impuesto.
func (r *TaxRepo) Create(tax *entity.BusinessAccountTax) error {
	query := `
		INSERT INTO business_account_taxes (` + taxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tax.ID, tax.BusinessAccountID, tax.Name, tax.Percentage, tax.Active,
		tax.CreatedAt, tax.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tax: %w", err)
	}
	return nil
}

// GetByID obtiene una regla; nil si no existe.
func (r *TaxRepo) GetByID(id string) (*entity.BusinessAccountTax, error) {
	query := `SELECT ` + taxColumns + ` FROM business_account_taxes WHERE id = $1`
	var t entity.BusinessAccountTax
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.BusinessAccountID, &t.Name, &t.Percentage, &t.Active,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax: %w", err)
	}
	return &t, nil
}

// ListByBusiness lista todas las reglas de la cuenta.
func (r *TaxRepo) ListByBusiness(businessAccountID string) ([]*entity.BusinessAccountTax, error) {
	query := `
		SELECT ` + taxColumns + `
		FROM business_account_taxes
		WHERE business_account_id = $1
		ORDER BY created_at`
	return r.list(query, businessAccountID)
}

// ListActiveByBusiness lista solo las reglas activas, las que participan en
// el cálculo.
func (r *TaxRepo) ListActiveByBusiness(businessAccountID string) ([]*entity.BusinessAccountTax, error) {
	query := `
		SELECT ` + taxColumns + `
		FROM business_account_taxes
		WHERE business_account_id = $1 AND active = true
		ORDER BY created_at`
	return r.list(query, businessAccountID)
}

// Update actualiza nombre, porcentaje y estado activo.
func (r *TaxRepo) Update(tax *entity.BusinessAccountTax) error {
	query := `
		UPDATE business_account_taxes
		SET name = $2, percentage = $3, active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		tax.ID, tax.Name, tax.Percentage, tax.Active, tax.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tax: %w", err)
	}
	return nil
}

// Delete borra la regla.
func (r *TaxRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM business_account_taxes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tax: %w", err)
	}
	return nil
}

func (r *TaxRepo) list(query string, args ...any) ([]*entity.BusinessAccountTax, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list taxes: %w", err)
	}
	defer rows.Close()

	var out []*entity.BusinessAccountTax
	for rows.Next() {
		var t entity.BusinessAccountTax
		if err := rows.Scan(
			&t.ID, &t.BusinessAccountID, &t.Name, &t.Percentage, &t.Active,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tax: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
