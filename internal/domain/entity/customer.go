package entity

import "time"

// Customer cliente del directorio de una cuenta de negocio.
// El motor solo guarda la referencia; la identidad la valida el directorio.
type Customer struct {
	ID                string
	BusinessAccountID string
	Name              string
	PhoneNumber       string
	Email             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
