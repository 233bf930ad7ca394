package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de pago.
const (
	PaymentModeCash   = "CASH"
	PaymentModeBank   = "BANK"
	PaymentModeCard   = "CARD"
	PaymentModeCredit = "CREDIT" // pagar después; requiere PayLaterDate
)

// Estados del pago. PENDING -> COMPLETED | FAILED; ambos terminales.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment liquidación financiera, uno-a-uno con Order.
type Payment struct {
	ID            string
	OrderID       string
	ModeOfPayment string
	Status        string
	PayLaterDate  *time.Time // solo fecha; requerido si ModeOfPayment == CREDIT
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanMutate reporta si el pago admite ediciones. COMPLETED y FAILED son terminales.
func (p *Payment) CanMutate() bool {
	return p.Status == PaymentStatusPending
}

// ValidPaymentMode reporta si el modo de pago es conocido.
func ValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeBank, PaymentModeCard, PaymentModeCredit:
		return true
	}
	return false
}

// SoldItem instantánea inmutable de una línea vendida, creada al completar el
// pago. Congela producto, unidad, cantidad y precio tal como estaban en ese
// instante, aunque el Stock cambie o se borre después.
type SoldItem struct {
	ID        string
	PaymentID string
	Product   string
	Unit      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}

// Amount subtotal de la línea vendida: round(quantity * price, 2).
func (s *SoldItem) Amount() decimal.Decimal {
	return s.Quantity.Mul(s.Price).Round(2)
}
