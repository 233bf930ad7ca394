package entity

import "time"

// User usuario dueño de una o más cuentas de negocio.
type User struct {
	ID                string
	PhoneNumber       string
	Name              string
	PasswordHash      string
	BusinessAccountID string // cuenta activa del usuario
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
