package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/pkg/jwt"
)

// Locals keys para UserID y BusinessAccountID en Fiber.
const (
	LocalUserID            = "user_id"
	LocalBusinessAccountID = "business_account_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y
// BusinessAccountID a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		// fasthttp recorta los espacios finales del header: "Bearer " llega
		// como "Bearer" a secas, esquema correcto sin token.
		tokenString := ""
		if len(parts) == 2 {
			tokenString = strings.TrimSpace(parts[1])
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, businessAccountID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalBusinessAccountID, businessAccountID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBusinessAccountID devuelve el BusinessAccountID del contexto (después
// del middleware de auth).
func GetBusinessAccountID(c *fiber.Ctx) string {
	v := c.Locals(LocalBusinessAccountID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
