package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lvaldez/bookkeeper-api/internal/application/auth"
	"github.com/lvaldez/bookkeeper-api/internal/application/customers"
	"github.com/lvaldez/bookkeeper-api/internal/application/inventory"
	"github.com/lvaldez/bookkeeper-api/internal/application/notifications"
	"github.com/lvaldez/bookkeeper-api/internal/application/orders"
	"github.com/lvaldez/bookkeeper-api/internal/application/payments"
	"github.com/lvaldez/bookkeeper-api/internal/application/taxes"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	StockUC        *inventory.StockUseCase
	OrderUC        *orders.OrderUseCase
	PaymentUC      *payments.PaymentUseCase
	TaxUC          *taxes.TaxUseCase
	CustomerUC     *customers.CustomerUseCase
	NotificationUC *notifications.NotificationUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario
	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.StockUC)
	stocks.Post("/", stockHandler.Create)
	stocks.Get("/", stockHandler.List)
	stocks.Get("/sold", stockHandler.ListSold)
	stocks.Get("/:id", stockHandler.GetByID)
	stocks.Put("/:id", stockHandler.Update)
	stocks.Delete("/:id", stockHandler.Delete)

	// Órdenes
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/from-list", orderHandler.CreateFromList)
	ordersGroup.Post("/custom", orderHandler.CreateCustom)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/from-list", orderHandler.UpdateFromList)
	ordersGroup.Put("/:id/custom", orderHandler.UpdateCustom)
	ordersGroup.Delete("/:id/items/:itemId", orderHandler.RemoveItem)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	// Pagos y liquidación
	paymentsGroup := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	paymentsGroup.Post("/", paymentHandler.Create)
	paymentsGroup.Get("/", paymentHandler.List)
	paymentsGroup.Get("/:id", paymentHandler.GetByID)
	paymentsGroup.Put("/:id", paymentHandler.Update)
	paymentsGroup.Post("/:id/complete", paymentHandler.Complete)
	paymentsGroup.Post("/:id/fail", paymentHandler.MarkFailed)
	paymentsGroup.Get("/:id/receipt", paymentHandler.Receipt)

	// Vista de ventas (pagos COMPLETED)
	protected.Get("/sales", paymentHandler.ListSales)

	// Impuestos
	taxesGroup := protected.Group("/taxes")
	taxHandler := NewTaxHandler(deps.TaxUC)
	taxesGroup.Post("/", taxHandler.Create)
	taxesGroup.Get("/", taxHandler.List)
	taxesGroup.Put("/:id", taxHandler.Update)
	taxesGroup.Delete("/:id", taxHandler.Delete)

	// Directorio de clientes
	customersGroup := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customersGroup.Post("/", customerHandler.Create)
	customersGroup.Get("/", customerHandler.List)
	customersGroup.Get("/:id", customerHandler.GetByID)
	customersGroup.Put("/:id", customerHandler.Update)
	customersGroup.Delete("/:id", customerHandler.Delete)

	// Notificaciones
	notificationsGroup := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notificationsGroup.Get("/", notificationHandler.List)
	notificationsGroup.Post("/:id/seen", notificationHandler.MarkSeen)
}
