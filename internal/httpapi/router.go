package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vaishnavid04/Everwear/internal/auth"
)

type RouterConfig struct {
	Tokens         *auth.TokenIssuer
	Auth           AuthOperations
	Catalog        CatalogStore
	Carts          CartOperations
	Checkout       CheckoutOperations
	Orders         OrderReader
	Chat           ChatOperations
	RequestTimeout time.Duration
}

// NewRouter assembles the public API. Catalog and auth endpoints are
// open; everything touching an owner's cart, orders or chat history
// sits behind the token gate.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth, cfg.RequestTimeout)
	productHandler := NewProductHandler(cfg.Catalog, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(cfg.Checkout, cfg.Orders, cfg.RequestTimeout)
	chatHandler := NewChatHandler(cfg.Chat, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{id}", productHandler.GetProduct)
			r.With(AuthMiddleware(cfg.Tokens)).Post("/", productHandler.CreateProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Tokens))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddLine)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveLine)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", ordersHandler.PlaceOrder)
				r.Get("/", ordersHandler.ListOrders)
				r.Get("/{id}", ordersHandler.GetOrder)
				r.Patch("/{id}/status", ordersHandler.UpdateStatus)
			})

			r.Route("/chatbot", func(r chi.Router) {
				r.Post("/", chatHandler.Ask)
				r.Get("/history", chatHandler.History)
			})
		})
	})

	return r
}
