package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest body para POST /payments.
// PayLaterDate en formato `yyyy-mm-dd`; requerido si ModeOfPayment es CREDIT.
type CreatePaymentRequest struct {
	OrderID       string `json:"order"`
	ModeOfPayment string `json:"mode_of_payment"`
	PayLaterDate  string `json:"pay_later_date,omitempty"`
}

// UpdatePaymentRequest body para PUT /payments/:id.
type UpdatePaymentRequest struct {
	ModeOfPayment string `json:"mode_of_payment"`
	PayLaterDate  string `json:"pay_later_date,omitempty"`
}

// SoldItemResponse instantánea de línea vendida en las respuestas.
type SoldItemResponse struct {
	ID       string          `json:"id"`
	Product  string          `json:"product"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
}

// PaymentResponse respuesta completa de un pago.
// OrderAmount es el costo vivo de la orden mientras el pago está PENDING y
// la suma congelada de sold_items una vez COMPLETED.
type PaymentResponse struct {
	ID            string             `json:"id"`
	OrderID       string             `json:"order"`
	Customer      string             `json:"customer"`
	Description   string             `json:"description"`
	ModeOfPayment string             `json:"mode_of_payment"`
	Status        string             `json:"status"`
	PayLaterDate  *string            `json:"pay_later_date,omitempty"`
	OrderAmount   decimal.Decimal    `json:"order_amount"`
	Taxes         []TaxLineResponse  `json:"taxes"`
	TaxPercentage decimal.Decimal    `json:"tax_percentage"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	SoldItems     []SoldItemResponse `json:"sold_items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
