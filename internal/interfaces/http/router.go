package http

import (
	"github.com/gofiber/fiber/v2"

	appcart "github.com/ninzkie1/buildAble-sub000/internal/application/cart"
	appcheckout "github.com/ninzkie1/buildAble-sub000/internal/application/checkout"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/identity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine       *appcart.Engine
	Orchestrator *appcheckout.Orchestrator
	Session      *identity.SessionManager
}

// Router registra las rutas del daemon.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Sesión (login/logout contra el proveedor de identidad)
	session := api.Group("/session")
	sessionHandler := NewSessionHandler(deps.Session)
	session.Post("/login", sessionHandler.Login)
	session.Delete("/", sessionHandler.Logout)
	session.Get("/", sessionHandler.Me)

	// Carrito
	cart := api.Group("/cart")
	cartHandler := NewCartHandler(deps.Engine)
	cart.Get("/", cartHandler.Get)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:productId", cartHandler.SetQuantity)
	cart.Delete("/items/:productId", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.Clear)

	// Checkout
	checkoutHandler := NewCheckoutHandler(deps.Orchestrator)
	cart.Get("/groups", checkoutHandler.Groups)
	api.Post("/checkout", checkoutHandler.Checkout)
}
