package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/purchasing"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	LocationUC   *usecase.LocationUseCase
	StockUC      *stock.UseCase
	PurchasingUC *purchasing.UseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
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
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Locations (protegido; borrado en cascada solo admin)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/tree", locationHandler.Tree)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", adminOnly, locationHandler.Delete)

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/adjust", stockHandler.Adjust)
	stockGroup.Post("/transfer", stockHandler.Transfer)
	stockGroup.Get("/locations/:id", stockHandler.ListByLocation)
	stockGroup.Get("/products/:id", stockHandler.ListByProduct)
	stockGroup.Get("/products/:id/movements", stockHandler.Movements)

	// Purchase orders (protegido)
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.PurchasingUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/order", orderHandler.MarkOrdered)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/archive", adminOnly, orderHandler.Archive)
}
