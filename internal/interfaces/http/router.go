package http

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/pyme-erp/internal/application/auth"
	"github.com/jhoicas/pyme-erp/internal/application/catalog"
	"github.com/jhoicas/pyme-erp/internal/application/fulfillment"
	"github.com/jhoicas/pyme-erp/internal/application/inventory"
	"github.com/jhoicas/pyme-erp/internal/application/orders"
	"github.com/jhoicas/pyme-erp/internal/application/usecase"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName string
	Env     string
	Storage string

	ProductUC   *usecase.ProductUseCase
	OrderUC     *orders.OrderUseCase
	ItemUC      *orders.ItemUseCase
	Fulfillment fulfillment.Dispatcher
	Movements   *inventory.RegisterMovementUseCase
	Catalog     *catalog.Service
	AuthUC      *auth.AuthUseCase

	JWTSecret string
	LoginPath string
	// StaticDir assets de la UI servidos en "/" (opcional).
	StaticDir string
	// LoginRateLimit intentos de login por minuto y por IP; 0 = 10, negativo = sin límite.
	LoginRateLimit int
	// Middlewares extra montados tras el AuthGate (p. ej. Swagger UI en /docs).
	Middlewares []fiber.Handler

	Log *logger.Logger
}

// NewApp crea la app Fiber con manejo de errores, recover, access log, AuthGate y rutas.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ErrorHandler: ErrorHandler(deps.Log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(AccessLog(deps.Log))
	app.Use(AuthGate(AuthGateConfig{
		Secret:         deps.JWTSecret,
		LoginPath:      deps.LoginPath,
		PublicPrefixes: []string{"/docs"},
		Log:            deps.Log,
	}))
	for _, mw := range deps.Middlewares {
		app.Use(mw)
	}
	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Las rutas específicas van antes de /catalog/:set.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	loginHandlers := []fiber.Handler{}
	if deps.LoginRateLimit >= 0 {
		limit := deps.LoginRateLimit
		if limit == 0 {
			limit = 10
		}
		loginHandlers = append(loginHandlers, limiter.New(limiter.Config{Max: limit, Expiration: time.Minute}))
	}
	app.Post("/auth/login", append(loginHandlers, authHandler.Login)...)

	// Diagnóstico (ADMIN)
	techHandler := NewTechHandler(deps.AppName, deps.Env, deps.Storage, entitySetNames(deps.Catalog))
	app.Get("/tech/status", RequireRole(entity.RoleAdmin), techHandler.Status)

	cat := app.Group("/catalog")

	productHandler := NewProductHandler(deps.ProductUC)
	products := cat.Group("/Products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	for set, kind := range map[string]entity.OrderKind{"SalesOrders": entity.KindSales, "PurchaseOrders": entity.KindPurchase} {
		h := NewOrderHandler(kind, deps.OrderUC)
		g := cat.Group("/" + set)
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id", h.Get)
		g.Patch("/:id", h.Update)
		g.Delete("/:id", h.Delete)
	}
	for set, kind := range map[string]entity.OrderKind{"SalesOrderItems": entity.KindSales, "PurchaseOrderItems": entity.KindPurchase} {
		h := NewItemHandler(kind, deps.ItemUC)
		g := cat.Group("/" + set)
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id", h.Get)
		g.Patch("/:id", h.Update)
		g.Delete("/:id", h.Delete)
	}

	inventoryHandler := NewInventoryHandler(deps.Movements)
	movements := cat.Group("/StockMovements")
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Post("/", inventoryHandler.RegisterMovement)
	movements.Get("/:id", inventoryHandler.GetMovement)
	movements.Patch("/:id", inventoryHandler.Immutable)
	movements.Put("/:id", inventoryHandler.Immutable)
	movements.Delete("/:id", inventoryHandler.Immutable)

	// Acciones de cumplimiento: submit / receive
	actionHandler := NewActionHandler(deps.Fulfillment)
	cat.Post("/:set/:id/:action", actionHandler.Invoke)

	// Conjuntos genéricos
	catalogHandler := NewCatalogHandler(deps.Catalog)
	cat.Get("/:set", catalogHandler.List)
	cat.Post("/:set", catalogHandler.Create)
	cat.Get("/:set/:id", catalogHandler.Get)
	cat.Patch("/:set/:id", catalogHandler.Update)
	cat.Delete("/:set/:id", catalogHandler.Delete)

	if deps.StaticDir != "" {
		app.Static("/", deps.StaticDir)
	}
}

func entitySetNames(svc *catalog.Service) []string {
	names := []string{"Products", "PurchaseOrderItems", "PurchaseOrders", "SalesOrderItems", "SalesOrders", "StockMovements"}
	if svc != nil {
		names = append(names, svc.Names()...)
	}
	sort.Strings(names)
	return names
}
