package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
	"github.com/lvaldez/bookkeeper-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login por teléfono.
// Cada usuario nace con su cuenta de negocio; el token lleva ambas
// identidades para que el middleware resuelva la cuenta activa.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario con su cuenta de negocio: hashea la contraseña
// con bcrypt, persiste y emite el token. El teléfono es la identidad única.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if in.PhoneNumber == "" {
		return nil, domain.NewValidationError("phone_number", "este campo es requerido")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "este campo es requerido")
	}
	existing, err := uc.userRepo.GetByPhone(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrPhoneAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.PhoneNumber
	}
	user := &entity.User{
		ID:                uuid.New().String(),
		PhoneNumber:       in.PhoneNumber,
		Name:              name,
		PasswordHash:      string(hash),
		BusinessAccountID: uuid.New().String(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return uc.issueToken(user)
}

// Login verifica teléfono/contraseña y emite el token.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByPhone(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issueToken(user)
}

func (uc *AuthUseCase) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.BusinessAccountID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:             token,
		UserID:            user.ID,
		BusinessAccountID: user.BusinessAccountID,
	}, nil
}
