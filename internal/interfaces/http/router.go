package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/application/valuation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *ledger.LedgerUseCase
	ValuationUC *valuation.ValuationUseCase
	ProductUC   *usecase.ProductUseCase
	BrandUC     *usecase.BrandUseCase
	AuthUC      *auth.AuthUseCase
	ReportGen   *pdf.StockReportGenerator
	WSUpgrade   fiber.Handler // filtro de upgrade para /ws
	WSHandler   fiber.Handler // conexión websocket de notificaciones
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Notificaciones en tiempo real (público, solo upgrade websocket)
	if deps.WSHandler != nil {
		app.Use("/ws", deps.WSUpgrade)
		app.Get("/ws", deps.WSHandler)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Movements: el libro de lotes (protegido)
	movements := protected.Group("/movements")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	movements.Post("/", ledgerHandler.RecordMovement)
	movements.Get("/", ledgerHandler.ListMovements)
	movements.Put("/:id", ledgerHandler.EditMovement)
	movements.Delete("/:id", adminOnly, ledgerHandler.DeleteMovement)

	// Warehouse: valoración FIFO (protegido)
	warehouse := protected.Group("/warehouse")
	valuationHandler := NewValuationHandler(deps.ValuationUC, deps.ReportGen)
	warehouse.Get("/value", valuationHandler.TotalValue)
	warehouse.Get("/summary", valuationHandler.Summary)
	warehouse.Get("/summary/pdf", valuationHandler.SummaryPDF)
	warehouse.Get("/history/:date", valuationHandler.History)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/lots", valuationHandler.ProductLots)

	// Brands (protegido)
	brands := protected.Group("/brands")
	brandHandler := NewBrandHandler(deps.BrandUC)
	brands.Get("/", brandHandler.List)
	brands.Post("/", brandHandler.Create)
	brands.Put("/:id", brandHandler.Update)
	brands.Delete("/:id", adminOnly, brandHandler.Delete)
}
