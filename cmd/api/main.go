package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-pro/internal/application/catalog"
	"github.com/jhoicas/pos-pro/internal/application/ledger"
	"github.com/jhoicas/pos-pro/internal/application/loyalty"
	"github.com/jhoicas/pos-pro/internal/application/ports"
	"github.com/jhoicas/pos-pro/internal/infrastructure/persistence"
	httpRouter "github.com/jhoicas/pos-pro/internal/interfaces/http"
	"github.com/jhoicas/pos-pro/pkg/config"
	"github.com/jhoicas/pos-pro/pkg/logger"
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
		Str("persistence", cfg.Persistence.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	gateway, closeGateway, err := newGateway(ctx, cfg.Persistence)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Persistence.Driver).Msg("almacén de snapshots")
	}
	defer closeGateway()

	loyaltyMgr := loyalty.New(loyalty.Deps{
		Program: loyalty.Program{
			PointsPerUnit:     cfg.POS.PointsPerUnit,
			PointsPerDiscount: cfg.POS.PointsPerDiscount,
			DiscountValue:     cfg.POS.DiscountValue,
		},
		Gateway: gateway,
		Log:     log,
	})
	cat := catalog.New(catalog.Deps{
		Gateway: gateway,
		Log:     log,
	})
	ldg := ledger.New(ledger.Deps{
		Catalog: cat,
		Loyalty: loyaltyMgr,
		Taxes: ledger.TaxTable{
			Default: cfg.POS.DefaultTaxRate,
			Rates:   cfg.POS.TaxRates,
		},
		ReceiptPrefix: cfg.POS.ReceiptPrefix,
		Gateway:       gateway,
		Log:           log,
	})

	// Restaura el estado previo desde los snapshots (si existen). El orden
	// importa: el ledger valida ventas contra clientes y productos ya cargados.
	if err := cat.Rehydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("rehidratar catálogo")
	}
	if err := loyaltyMgr.Rehydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("rehidratar clientes")
	}
	if err := ldg.Rehydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("rehidratar ventas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:   cat,
		Ledger:    ldg,
		Loyalty:   loyaltyMgr,
		JWTSecret: cfg.JWT.Secret,
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

// newGateway construye el almacén de snapshots según el driver configurado.
// Devuelve además una función de cierre (no-op para memory y file).
func newGateway(ctx context.Context, cfg config.PersistenceConfig) (ports.Gateway, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "memory", "":
		return persistence.NewMemoryStore(), noop, nil
	case "file":
		store, err := persistence.NewFileStore(cfg.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "redis":
		store := persistence.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := store.Ping(ctx); err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		store, err := persistence.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("driver de persistencia desconocido: %q", cfg.Driver)
	}
}
