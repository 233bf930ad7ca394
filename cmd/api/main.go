package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lvaldez/bookkeeper-api/internal/application/auth"
	"github.com/lvaldez/bookkeeper-api/internal/application/customers"
	"github.com/lvaldez/bookkeeper-api/internal/application/inventory"
	"github.com/lvaldez/bookkeeper-api/internal/application/notifications"
	"github.com/lvaldez/bookkeeper-api/internal/application/orders"
	"github.com/lvaldez/bookkeeper-api/internal/application/payments"
	"github.com/lvaldez/bookkeeper-api/internal/application/taxes"
	infrapdf "github.com/lvaldez/bookkeeper-api/internal/infrastructure/pdf"
	"github.com/lvaldez/bookkeeper-api/internal/infrastructure/postgres"
	httpRouter "github.com/lvaldez/bookkeeper-api/internal/interfaces/http"
	"github.com/lvaldez/bookkeeper-api/pkg/config"
	"github.com/lvaldez/bookkeeper-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	soldRepo := postgres.NewSoldRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	taxRepo := postgres.NewTaxRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := inventory.NewStockUseCase(txRunner, stockRepo, soldRepo)
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, stockRepo, customerRepo, taxRepo)
	notificationUC := notifications.NewNotificationUseCase(notificationRepo)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	paymentUC := payments.NewPaymentUseCase(
		txRunner, paymentRepo, orderRepo, customerRepo, taxRepo,
		stockUC, orderUC, notificationUC, receiptGenerator,
	)
	taxUC := taxes.NewTaxUseCase(taxRepo)
	customerUC := customers.NewCustomerUseCase(customerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bookkeeper API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		StockUC:        stockUC,
		OrderUC:        orderUC,
		PaymentUC:      paymentUC,
		TaxUC:          taxUC,
		CustomerUC:     customerUC,
		NotificationUC: notificationUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
