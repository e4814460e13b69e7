package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopworks/catalog-backend/api/controllers"
	"github.com/shopworks/catalog-backend/api/middleware"
	cartsvc "github.com/shopworks/catalog-backend/internal/cart"
	"github.com/shopworks/catalog-backend/internal/categorization"
	modifiersvc "github.com/shopworks/catalog-backend/internal/modifiers"
	ordersvc "github.com/shopworks/catalog-backend/internal/orders"
	productsvc "github.com/shopworks/catalog-backend/internal/products"
	reviewsvc "github.com/shopworks/catalog-backend/internal/reviews"
	"github.com/shopworks/catalog-backend/pkg/config"
	"github.com/shopworks/catalog-backend/pkg/db"
	"github.com/shopworks/catalog-backend/pkg/logger"
	"github.com/shopworks/catalog-backend/pkg/metrics"
	pkgredis "github.com/shopworks/catalog-backend/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *pkgredis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Products       productsvc.Service
	Categorization categorization.Service
	Modifiers      modifiersvc.Service
	Carts          cartsvc.Service
	Orders         ordersvc.Service
	Reviews        reviewsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Redis != nil {
			if cfg == nil || cfg.FeatureFlags.Idempotency {
				r.Use(middleware.Idempotency(deps.Redis, logg))
			}
			r.Use(middleware.RateLimit(deps.Redis, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(deps.Products, logg))
				r.Patch("/", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/", controllers.DeleteProduct(deps.Products, logg))
				r.Get("/variants", controllers.FilterProductVariants(deps.Products, logg))
				r.Get("/variants/match", controllers.MatchProductVariant(deps.Products, logg))
				r.Get("/variations", controllers.GetProductVariations(deps.Products, logg))
				r.Put("/modifiers", controllers.ReplaceProductModifiers(deps.Products, logg))
				r.Get("/reviews", controllers.ListProductReviews(deps.Reviews, logg))
				r.Post("/reviews", controllers.CreateReview(deps.Reviews, logg))
			})
		})

		r.Route("/trees/{kind}", func(r chi.Router) {
			r.Post("/", controllers.CreateNode(deps.Categorization, logg))
			r.Route("/{nodeID}", func(r chi.Router) {
				r.Get("/", controllers.GetNode(deps.Categorization, logg))
				r.Patch("/", controllers.UpdateNode(deps.Categorization, logg))
				r.Delete("/", controllers.DeleteNode(deps.Categorization, logg))
				r.Get("/modifiers", controllers.GetNodeModifiers(deps.Categorization, logg))
				r.Put("/modifiers", controllers.ReplaceNodeModifiers(deps.Categorization, logg))
			})
		})

		r.Route("/modifiers", func(r chi.Router) {
			r.Get("/", controllers.ListModifiers(deps.Modifiers, logg))
			r.Post("/", controllers.CreateModifier(deps.Modifiers, logg))
			r.Get("/cart", controllers.ListCartModifiers(deps.Modifiers, logg))
			r.Route("/{modifierID}", func(r chi.Router) {
				r.Get("/", controllers.GetModifier(deps.Modifiers, logg))
				r.Patch("/", controllers.UpdateModifier(deps.Modifiers, logg))
				r.Delete("/", controllers.DeleteModifier(deps.Modifiers, logg))
				r.Post("/conditions", controllers.AddModifierCondition(deps.Modifiers, logg))
				r.Delete("/conditions/{conditionID}", controllers.RemoveModifierCondition(deps.Modifiers, logg))
				r.Post("/codes", controllers.AddModifierCode(deps.Modifiers, logg))
				r.Delete("/codes/{codeID}", controllers.RemoveModifierCode(deps.Modifiers, logg))
			})
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CreateCart(deps.Carts, logg))
			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Carts, logg))
				r.Put("/items", controllers.ReplaceCartItems(deps.Carts, logg))
				r.Post("/codes", controllers.ApplyCartCode(deps.Carts, logg))
				r.Delete("/codes/{code}", controllers.RemoveCartCode(deps.Carts, logg))
				r.Post("/quote", controllers.QuoteCart(deps.Carts, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/number/{number}", controllers.GetOrderByNumber(deps.Orders, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(deps.Orders, logg))
				r.Post("/status", controllers.UpdateOrderStatus(deps.Orders, logg))
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/{reviewID}/approve", controllers.ApproveReview(deps.Reviews, logg))
			r.Delete("/{reviewID}", controllers.DeleteReview(deps.Reviews, logg))
		})
	})

	return r
}
