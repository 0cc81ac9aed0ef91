package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/config"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/metrics"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/middleware"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/service"
)

// RouterDeps collects what the HTTP surface is built from.
// Metrics may be nil, in which case /metrics is not served.
type RouterDeps struct {
	Config      *config.Config
	Log         *slog.Logger
	Restaurants *service.RestaurantService
	Wallets     *service.WalletService
	Metrics     *metrics.Metrics
}

// NewRouter wires middleware and routes
func NewRouter(deps RouterDeps) http.Handler {
	healthHandler := NewHealthHandler(deps.Restaurants, deps.Log)
	restaurantHandler := NewRestaurantHandler(deps.Restaurants, deps.Log)
	walletHandler := NewWalletHandler(deps.Wallets, deps.Log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Log))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Instrument)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "api_key", middleware.ManagementTokenHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", restaurantHandler.ListRestaurants)
			r.Post("/", restaurantHandler.CreateRestaurant)

			r.Route("/{restaurantId}", func(r chi.Router) {
				r.Get("/", restaurantHandler.GetRestaurant)
				r.Get("/products", restaurantHandler.ListProducts)
				r.Get("/products/{productId}", restaurantHandler.GetProduct)
				r.Get("/products/{productId}/availability", restaurantHandler.CheckAvailability)
				r.Get("/products/{productId}/stock", restaurantHandler.CheckStock)
				r.Post("/products/{productId}/buy", restaurantHandler.BuyProduct)

				// Manager-only operations
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagementToken)
					r.Post("/products", restaurantHandler.AddProduct)
					r.Post("/products/{productId}/remove", restaurantHandler.RemoveProductFromStock)
					r.Post("/products/{productId}/restock", restaurantHandler.RestockProduct)
					r.Put("/products/{productId}/category", restaurantHandler.ChangeProductCategory)
					r.Post("/withdraw", restaurantHandler.Withdraw)
				})
			})
		})

		r.Route("/wallets/{address}", func(r chi.Router) {
			r.Get("/", walletHandler.GetWallet)
			if deps.Config.Faucet.Enabled {
				r.With(middleware.APIKeyAuth(deps.Config.Auth)).Post("/mint", walletHandler.Mint)
			}
		})
	})

	return r
}
