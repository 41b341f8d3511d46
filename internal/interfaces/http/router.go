package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-caja/internal/application/auth"
	"github.com/tu-usuario/pos-caja/internal/application/checkout"
	"github.com/tu-usuario/pos-caja/internal/application/usecase"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ProductUC       *usecase.ProductUseCase
	CustomerUC      *usecase.CustomerUseCase
	CreateSale      *checkout.CreateSaleUseCase
	CompletePayment *checkout.CompletePaymentUseCase
	CancelSale      *checkout.CancelSaleUseCase
	AnnulSale       *checkout.AnnulSaleUseCase
	SaleQuery       *checkout.SaleQueryUseCase
	Ticket          *checkout.TicketUseCase
	JWTSecret       string
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

	// Sales (protegido: el flujo de caja es para cualquier rol autenticado)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.CompletePayment, deps.CancelSale, deps.AnnulSale, deps.SaleQuery, deps.Ticket)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/ticket", saleHandler.Ticket)
	sales.Post("/:id/complete", saleHandler.Complete)
	sales.Post("/:id/cancel", saleHandler.Cancel)
	// Anular una venta completada deshace un cobro cerrado: solo admin.
	sales.Post("/:id/annul", RequireRole(entity.RoleAdmin), saleHandler.Annul)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/ruc/:ruc", customerHandler.ResolveRUC)
	customers.Put("/:id", customerHandler.Update)

	// Products y categorías (protegido; mutaciones solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	categories := protected.Group("/categories")
	categories.Get("/", productHandler.ListCategories)
	categories.Post("/", RequireRole(entity.RoleAdmin), productHandler.CreateCategory)
	categories.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.DeleteCategory)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Get("/", authHandler.ListUsers)
}
