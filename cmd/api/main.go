package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/docs"
	"github.com/jhoicas/pyme-erp/internal/application/auth"
	"github.com/jhoicas/pyme-erp/internal/application/catalog"
	"github.com/jhoicas/pyme-erp/internal/application/fulfillment"
	"github.com/jhoicas/pyme-erp/internal/application/inventory"
	"github.com/jhoicas/pyme-erp/internal/application/orders"
	"github.com/jhoicas/pyme-erp/internal/application/rollup"
	"github.com/jhoicas/pyme-erp/internal/application/usecase"
	httpRouter "github.com/jhoicas/pyme-erp/internal/interfaces/http"
	"github.com/jhoicas/pyme-erp/pkg/config"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// @title                       pyme-erp API
// @version                     1.0
// @description                 Núcleo de pedidos, inventario y catálogos para pymes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación detenida con error")
	}
}

// run arranca el servidor y bloquea hasta SIGINT/SIGTERM. Los errores se devuelven
// para que los defer (cierre del pool) se ejecuten antes de salir.
func run(cfg *config.Config, log *logger.Logger) error {
	st, err := openStorage(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var extra []fiber.Handler
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		// Swagger UI en local: http://localhost:<port>/docs
		extra = append(extra, swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Debug().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		Env:         cfg.App.Env,
		Storage:     cfg.App.Storage,
		ProductUC:   usecase.NewProductUseCase(st.tx),
		OrderUC:     orders.NewOrderUseCase(st.tx),
		ItemUC:      orders.NewItemUseCase(st.tx, rollup.New(log)),
		Fulfillment: fulfillment.NewService(st.tx, log),
		Movements:   inventory.NewRegisterMovementUseCase(st.tx),
		Catalog:     catalog.NewService(st.catalog, catalog.DefaultSets()...),
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		LoginPath:   cfg.HTTP.LoginPath,
		StaticDir:   cfg.HTTP.StaticDir,
		Middlewares: extra,
		Log:         log,
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
	return nil
}
