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
	"github.com/tu-usuario/pos-caja/internal/application/auth"
	"github.com/tu-usuario/pos-caja/internal/application/checkout"
	"github.com/tu-usuario/pos-caja/internal/application/usecase"
	infrapdf "github.com/tu-usuario/pos-caja/internal/infrastructure/pdf"
	"github.com/tu-usuario/pos-caja/internal/infrastructure/postgres"
	"github.com/tu-usuario/pos-caja/internal/infrastructure/set"
	httpRouter "github.com/tu-usuario/pos-caja/internal/interfaces/http"
	"github.com/tu-usuario/pos-caja/pkg/config"
	"github.com/tu-usuario/pos-caja/pkg/logger"
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
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Registro de la SET: opcional; sin BaseURL la búsqueda de RUC degrada
	// al consumidor final.
	var rucLookup set.RUCLookup
	if cfg.SET.BaseURL != "" {
		rucLookup = set.NewHTTPClient(cfg.SET.BaseURL)
	} else {
		log.Warn().Msg("SET_RUC_BASE_URL vacío: consulta de RUC externa deshabilitada")
	}

	customerUC := usecase.NewCustomerUseCase(customerRepo, rucLookup)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	createSaleUC := checkout.NewCreateSaleUseCase(txRunner, productRepo, customerUC)
	completePaymentUC := checkout.NewCompletePaymentUseCase(txRunner, saleRepo)
	cancelSaleUC := checkout.NewCancelSaleUseCase(saleRepo)
	annulSaleUC := checkout.NewAnnulSaleUseCase(saleRepo)
	saleQueryUC := checkout.NewSaleQueryUseCase(saleRepo)

	ticketGen := infrapdf.NewTicketGenerator(cfg.App.StoreName, cfg.App.StoreRUC)
	ticketUC := checkout.NewTicketUseCase(saleRepo, ticketGen)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Caja API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ProductUC:       productUC,
		CustomerUC:      customerUC,
		CreateSale:      createSaleUC,
		CompletePayment: completePaymentUC,
		CancelSale:      cancelSaleUC,
		AnnulSale:       annulSaleUC,
		SaleQuery:       saleQueryUC,
		Ticket:          ticketUC,
		JWTSecret:       cfg.JWT.Secret,
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
