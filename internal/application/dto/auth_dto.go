package dto

// RegisterRequest body para POST /auth/register.
type RegisterRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// LoginRequest body para POST /auth/login.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// AuthResponse token emitido tras registro o login.
type AuthResponse struct {
	Token             string `json:"token"`
	UserID            string `json:"user_id"`
	BusinessAccountID string `json:"business_account_id"`
}
