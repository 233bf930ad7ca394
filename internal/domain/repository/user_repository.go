package repository

import "github.com/lvaldez/bookkeeper-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (capa de auth).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByPhone(phoneNumber string) (*entity.User, error)
}
