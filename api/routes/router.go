package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luphonix/retailops-backend/api/controllers"
	"github.com/luphonix/retailops-backend/api/middleware"
	"github.com/luphonix/retailops-backend/internal/accounting"
	discountsvc "github.com/luphonix/retailops-backend/internal/discounts"
	"github.com/luphonix/retailops-backend/internal/inventory"
	ordersvc "github.com/luphonix/retailops-backend/internal/orders"
	productsvc "github.com/luphonix/retailops-backend/internal/products"
	returnsvc "github.com/luphonix/retailops-backend/internal/returns"
	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/logger"
	pkgredis "github.com/luphonix/retailops-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	metricsRegistry *prometheus.Registry,
	productService productsvc.Service,
	orderService ordersvc.Service,
	returnService returnsvc.Service,
	discountService discountsvc.Service,
	movementService inventory.MovementService,
	statsService inventory.StatsService,
	accountingService accounting.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisP pkgredis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(productService, logg))
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(productService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(productService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Route("/movements", func(r chi.Router) {
				r.Post("/", controllers.MovementCreate(movementService, logg))
				r.Get("/", controllers.MovementList(movementService, logg))
			})
			r.Route("/stats", func(r chi.Router) {
				r.Get("/", controllers.StatsList(statsService, logg))
				r.Get("/{productId}", controllers.StatsDetail(statsService, logg))
				r.Patch("/{productId}", controllers.StatsUpdate(statsService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
		})

		r.Route("/returns", func(r chi.Router) {
			r.Post("/", controllers.ReturnCreate(returnService, logg))
			r.Get("/", controllers.ReturnList(returnService, logg))
			r.Get("/{returnId}", controllers.ReturnDetail(returnService, logg))
		})

		r.Route("/discounts", func(r chi.Router) {
			r.Post("/", controllers.DiscountCreate(discountService, logg))
			r.Post("/redeem", controllers.DiscountRedeem(discountService, logg))
			r.Get("/", controllers.DiscountList(discountService, logg))
			r.Delete("/{discountId}", controllers.DiscountDelete(discountService, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/entries", controllers.EntryCreate(accountingService, logg))
			r.Get("/entries", controllers.EntryList(accountingService, logg))
			r.Get("/profit-loss", controllers.ProfitLoss(accountingService, logg))
		})
	})

	return r
}
