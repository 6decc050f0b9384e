package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	appcart "github.com/ninzkie1/buildAble-sub000/internal/application/cart"
	appcheckout "github.com/ninzkie1/buildAble-sub000/internal/application/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/domain/repository"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/backendapi"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/events"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/identity"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/localstore"
	httpRouter "github.com/ninzkie1/buildAble-sub000/internal/interfaces/http"
	"github.com/ninzkie1/buildAble-sub000/pkg/config"
	"github.com/ninzkie1/buildAble-sub000/pkg/logger"
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
		Str("backend", cfg.Backend.BaseURL).
		Msg("iniciando daemon de storefront")

	// Contexto de sesión (identidad + dirección + orden pendiente)
	session := identity.NewSessionManager(cfg.JWT.Secret)

	// Gateways del backend (bearer token desde la sesión)
	apiClient := backendapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout(), session)
	cartGateway := backendapi.NewCartClient(apiClient)
	checkoutGateway := backendapi.NewCheckoutClient(apiClient)

	// Carrito invitado durable
	guestStore := localstore.NewGuestStore(afero.NewOsFs(), cfg.Guest.CartPath)

	// Motor de reconciliación
	store := appcart.NewStore()
	engine := appcart.NewEngine(store, cartGateway, guestStore, session, log, appcart.Options{
		Debounce: cfg.Sync.Debounce(),
		Settle:   cfg.Sync.Settle(),
	})
	defer engine.Close()

	// Publicador de eventos de órdenes (opcional)
	var publisher repository.OrderEventPublisher
	if cfg.AMQP.Enabled() {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URI, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión al broker AMQP")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	orchestrator := appcheckout.NewOrchestrator(
		engine, session, checkoutGateway, checkoutGateway, publisher, log,
		appcheckout.Config{
			SuccessURL:  cfg.Checkout.SuccessURL,
			CancelURL:   cfg.Checkout.CancelURL,
			SettleDelay: cfg.Sync.Settle(),
		},
	)

	// Carga inicial del carrito (sesión invitada al arrancar)
	go engine.Reload(context.Background())

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
		Engine:       engine,
		Orchestrator: orchestrator,
		Session:      session,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando daemon...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("daemon detenido")
}
