package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
	"github.com/lvaldez/bookkeeper-api/internal/domain/tax"
)

const payLaterDateLayout = "2006-01-02"

// PaymentUseCase casos de uso de pagos: alta uno-a-uno contra la orden,
// la liquidación atómica (Complete), la rama FAILED y las lecturas con
// montos congelados o vivos según el estado.
type PaymentUseCase struct {
	txRunner     SettlementTxRunner
	paymentRepo  repository.PaymentRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	taxRepo      repository.TaxRepository
	seller       Seller
	closer       OrderCloser
	reminder     ReminderIssuer
	receipts     ReceiptGenerator
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner SettlementTxRunner,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	taxRepo repository.TaxRepository,
	seller Seller,
	closer OrderCloser,
	reminder ReminderIssuer,
	receipts ReceiptGenerator,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:     txRunner,
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		taxRepo:      taxRepo,
		seller:       seller,
		closer:       closer,
		reminder:     reminder,
		receipts:     receipts,
	}
}

// Create crea el pago PENDING de una orden abierta. Cada orden admite un solo
// pago; un segundo intento devuelve ErrDuplicate. CREDIT exige pay_later_date
// de hoy o futura; los demás modos la ignoran.
func (uc *PaymentUseCase) Create(ctx context.Context, businessID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	order, err := uc.ownedOrder(businessID, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.CanMutate() {
		return nil, domain.ErrStateConflict
	}
	existing, err := uc.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if !entity.ValidPaymentMode(in.ModeOfPayment) {
		return nil, domain.NewValidationError("mode_of_payment", "modo de pago desconocido")
	}
	payLater, err := resolvePayLaterDate(in.ModeOfPayment, in.PayLaterDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &entity.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		ModeOfPayment: in.ModeOfPayment,
		Status:        entity.PaymentStatusPending,
		PayLaterDate:  payLater,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return uc.toResponse(payment, order)
}

// Update edita modo de pago y fecha de crédito de un pago PENDING. Los
// estados COMPLETED y FAILED son terminales.
func (uc *PaymentUseCase) Update(ctx context.Context, businessID, paymentID string, in dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	payment, order, err := uc.ownedPayment(businessID, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.CanMutate() {
		return nil, domain.ErrStateConflict
	}
	if in.ModeOfPayment != "" {
		if !entity.ValidPaymentMode(in.ModeOfPayment) {
			return nil, domain.NewValidationError("mode_of_payment", "modo de pago desconocido")
		}
		payment.ModeOfPayment = in.ModeOfPayment
	}
	if payment.ModeOfPayment == entity.PaymentModeCredit {
		// Fecha ausente en el request: se conserva la que ya tiene el pago.
		if in.PayLaterDate != "" {
			payLater, err := resolvePayLaterDate(payment.ModeOfPayment, in.PayLaterDate)
			if err != nil {
				return nil, err
			}
			payment.PayLaterDate = payLater
		}
		if payment.PayLaterDate == nil {
			return nil, domain.NewValidationError("pay_later_date", "este campo es requerido para pagos a crédito")
		}
	} else {
		payment.PayLaterDate = nil
	}
	payment.UpdatedAt = time.Now()
	if err := uc.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return uc.toResponse(payment, order)
}

// Complete ejecuta la liquidación atómica del pago:
//
//  1. descuenta del inventario cada línea de la orden (fila bloqueada,
//     precondición re-verificada),
//  2. congela cada línea como SoldItem con el precio del momento,
//  3. cierra la orden,
//  4. si el modo es CREDIT, emite el recordatorio de cobro,
//  5. marca el pago COMPLETED.
//
// Todo dentro de una transacción: si cualquier paso falla, nada queda —
// ni descuento parcial, ni orden cerrada sin instantáneas, ni pago
// completado sin descuento.
func (uc *PaymentUseCase) Complete(ctx context.Context, businessID, paymentID string) (*dto.PaymentResponse, error) {
	payment, order, err := uc.ownedPayment(businessID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != entity.PaymentStatusPending {
		return nil, domain.ErrStateConflict
	}
	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.txRunner.RunSettlement(ctx, func(
		stockRepo repository.StockRepository,
		soldRepo repository.SoldRepository,
		orderRepo repository.OrderRepository,
		paymentRepo repository.PaymentRepository,
		notificationRepo repository.NotificationRepository,
	) error {
		switch order.OrderType {
		case entity.OrderTypeFromList:
			for _, item := range items {
				snapshot, err := uc.seller.SellInTx(stockRepo, soldRepo, item.StockID, item.Quantity, now)
				if err != nil {
					return err
				}
				soldItem := &entity.SoldItem{
					ID:        uuid.New().String(),
					PaymentID: payment.ID,
					Product:   snapshot.Product,
					Unit:      snapshot.Unit,
					Quantity:  item.Quantity,
					Price:     snapshot.Price,
				}
				if err := paymentRepo.CreateSoldItem(soldItem); err != nil {
					return err
				}
			}
		case entity.OrderTypeCustom:
			cost := decimal.Zero
			if order.CustomCost != nil {
				cost = *order.CustomCost
			}
			soldItem := &entity.SoldItem{
				ID:        uuid.New().String(),
				PaymentID: payment.ID,
				Product:   order.Description,
				Unit:      entity.UnitPiece,
				Quantity:  decimal.NewFromInt(1),
				Price:     cost,
			}
			if err := paymentRepo.CreateSoldItem(soldItem); err != nil {
				return err
			}
		}

		if err := uc.closer.CloseInTx(orderRepo, order, now); err != nil {
			return err
		}

		if payment.ModeOfPayment == entity.PaymentModeCredit && payment.PayLaterDate != nil {
			customerName := ""
			if customer != nil {
				customerName = customer.Name
			}
			actionURL := fmt.Sprintf("/api/business/%s/payments/%s", businessID, payment.ID)
			if _, err := uc.reminder.PayLaterReminderInTx(
				notificationRepo, businessID, customerName, actionURL, *payment.PayLaterDate, now,
			); err != nil {
				return err
			}
		}

		payment.Status = entity.PaymentStatusCompleted
		payment.UpdatedAt = now
		return paymentRepo.Update(payment)
	})
	if err != nil {
		// La tx hizo rollback completo; el pago sigue PENDING y la orden OPEN.
		payment.Status = entity.PaymentStatusPending
		return nil, err
	}
	return uc.toResponse(payment, order)
}

// MarkFailed marca un pago PENDING como FAILED. No toca inventario ni el
// estado de la orden: la orden sigue OPEN y puede recibir otro intento sólo
// borrando el pago fallido (la relación es uno-a-uno).
func (uc *PaymentUseCase) MarkFailed(ctx context.Context, businessID, paymentID string) (*dto.PaymentResponse, error) {
	payment, order, err := uc.ownedPayment(businessID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != entity.PaymentStatusPending {
		return nil, domain.ErrStateConflict
	}
	payment.Status = entity.PaymentStatusFailed
	payment.UpdatedAt = time.Now()
	if err := uc.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return uc.toResponse(payment, order)
}

// Get devuelve el detalle del pago. Mientras está PENDING los montos siguen
// el costo vivo de la orden; una vez COMPLETED quedan congelados en las
// instantáneas SoldItem.
func (uc *PaymentUseCase) Get(ctx context.Context, businessID, paymentID string) (*dto.PaymentResponse, error) {
	payment, order, err := uc.ownedPayment(businessID, paymentID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(payment, order)
}

// List lista los pagos de la cuenta con filtros opcionales.
func (uc *PaymentUseCase) List(ctx context.Context, businessID string, filter repository.PaymentFilter, limit, offset int) ([]*dto.PaymentResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	payments, err := uc.paymentRepo.ListByBusiness(businessID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		order, err := uc.orderRepo.GetByID(p.OrderID)
		if err != nil {
			return nil, err
		}
		resp, err := uc.toResponse(p, order)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// ListSales vista de ventas: los pagos COMPLETED de la cuenta, con sus
// montos congelados.
func (uc *PaymentUseCase) ListSales(ctx context.Context, businessID string, limit, offset int) ([]*dto.PaymentResponse, error) {
	return uc.List(ctx, businessID, repository.PaymentFilter{Status: entity.PaymentStatusCompleted}, limit, offset)
}

// Receipt renderiza el comprobante PDF de un pago completado.
func (uc *PaymentUseCase) Receipt(ctx context.Context, businessID, paymentID string) ([]byte, error) {
	payment, order, err := uc.ownedPayment(businessID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != entity.PaymentStatusCompleted {
		return nil, domain.ErrStateConflict
	}
	soldItems, err := uc.paymentRepo.GetSoldItems(payment.ID)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, err := uc.customerRepo.GetByID(order.CustomerID); err == nil && customer != nil {
		customerName = customer.Name
	}

	orderAmount := sumSoldItems(soldItems)
	rules, err := uc.activeTaxes(businessID)
	if err != nil {
		return nil, err
	}
	breakdown := tax.Compute(orderAmount, rules)

	items := make([]entity.SoldItem, 0, len(soldItems))
	for _, it := range soldItems {
		items = append(items, *it)
	}
	return uc.receipts.Generate(Receipt{
		PaymentID:     payment.ID,
		CustomerName:  customerName,
		ModeOfPayment: payment.ModeOfPayment,
		Date:          payment.UpdatedAt,
		Items:         items,
		OrderAmount:   orderAmount,
		TaxAmount:     breakdown.TaxAmount,
		TotalAmount:   breakdown.TotalAmount,
	})
}

// ── Helpers ───────────────────────────────────────────────────────────────

// resolvePayLaterDate valida y parsea la fecha de crédito. Para modos que no
// son CREDIT devuelve nil (la fecha enviada se descarta).
func resolvePayLaterDate(mode, raw string) (*time.Time, error) {
	if mode != entity.PaymentModeCredit {
		return nil, nil
	}
	if raw == "" {
		return nil, domain.NewValidationError("pay_later_date", "este campo es requerido para pagos a crédito")
	}
	date, err := time.Parse(payLaterDateLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError("pay_later_date", "formato inválido, se espera yyyy-mm-dd")
	}
	// Comparación por componentes de fecha en una misma ubicación: la hora
	// local del proceso decide qué día es "hoy".
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, domain.NewValidationError("pay_later_date", "no puede estar en el pasado")
	}
	return &date, nil
}

func sumSoldItems(items []*entity.SoldItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount())
	}
	return total.Round(2)
}

func (uc *PaymentUseCase) ownedOrder(businessID, orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, domain.NewValidationError("order", "este campo es requerido")
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (uc *PaymentUseCase) ownedPayment(businessID, paymentID string) (*entity.Payment, *entity.Order, error) {
	payment, err := uc.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, domain.ErrNotFound
	}
	order, err := uc.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil || order.BusinessAccountID != businessID {
		return nil, nil, domain.ErrNotFound
	}
	return payment, order, nil
}

// orderAmount costo vigente del pago: congelado en SoldItem si COMPLETED,
// costo vivo de la orden en cualquier otro estado.
func (uc *PaymentUseCase) orderAmount(payment *entity.Payment, order *entity.Order) (decimal.Decimal, []*entity.SoldItem, error) {
	if payment.Status == entity.PaymentStatusCompleted {
		soldItems, err := uc.paymentRepo.GetSoldItems(payment.ID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		return sumSoldItems(soldItems), soldItems, nil
	}
	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	cost, err := uc.closer.Cost(order, items)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return cost, nil, nil
}

func (uc *PaymentUseCase) toResponse(payment *entity.Payment, order *entity.Order) (*dto.PaymentResponse, error) {
	orderAmount, soldItems, err := uc.orderAmount(payment, order)
	if err != nil {
		return nil, err
	}
	rules, err := uc.activeTaxes(order.BusinessAccountID)
	if err != nil {
		return nil, err
	}
	breakdown := tax.Compute(orderAmount, rules)

	customerName := ""
	if customer, err := uc.customerRepo.GetByID(order.CustomerID); err == nil && customer != nil {
		customerName = customer.Name
	}

	resp := &dto.PaymentResponse{
		ID:            payment.ID,
		OrderID:       order.ID,
		Customer:      customerName,
		Description:   order.Description,
		ModeOfPayment: payment.ModeOfPayment,
		Status:        payment.Status,
		OrderAmount:   orderAmount,
		Taxes:         toTaxLines(breakdown),
		TaxPercentage: breakdown.TaxPercentage,
		TaxAmount:     breakdown.TaxAmount,
		TotalAmount:   breakdown.TotalAmount,
		SoldItems:     []dto.SoldItemResponse{},
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
	if payment.PayLaterDate != nil {
		s := payment.PayLaterDate.Format(payLaterDateLayout)
		resp.PayLaterDate = &s
	}
	for _, it := range soldItems {
		resp.SoldItems = append(resp.SoldItems, dto.SoldItemResponse{
			ID:       it.ID,
			Product:  it.Product,
			Unit:     it.Unit,
			Quantity: it.Quantity,
			Price:    it.Price,
			Amount:   it.Amount(),
		})
	}
	return resp, nil
}

func (uc *PaymentUseCase) activeTaxes(businessID string) ([]entity.BusinessAccountTax, error) {
	rules, err := uc.taxRepo.ListActiveByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.BusinessAccountTax, 0, len(rules))
	for _, r := range rules {
		out = append(out, *r)
	}
	return out, nil
}

func toTaxLines(b tax.Breakdown) []dto.TaxLineResponse {
	out := make([]dto.TaxLineResponse, 0, len(b.Taxes))
	for _, t := range b.Taxes {
		out = append(out, dto.TaxLineResponse{Name: t.Name, Percentage: t.Percentage, Amount: t.Amount})
	}
	return out
}
