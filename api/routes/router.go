package routes

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thiwankabandara/giftonline-backend/api/controllers"
	"github.com/thiwankabandara/giftonline-backend/api/middleware"
	"github.com/thiwankabandara/giftonline-backend/api/responses"
	authsvc "github.com/thiwankabandara/giftonline-backend/internal/auth"
	categorysvc "github.com/thiwankabandara/giftonline-backend/internal/categories"
	productsvc "github.com/thiwankabandara/giftonline-backend/internal/products"
	reviewsvc "github.com/thiwankabandara/giftonline-backend/internal/reviews"
	uploadsvc "github.com/thiwankabandara/giftonline-backend/internal/uploads"
	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/logger"
	"github.com/thiwankabandara/giftonline-backend/pkg/metrics"
	"github.com/thiwankabandara/giftonline-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redis.Client
	Users           middleware.UserSource
	AuthService     authsvc.Service
	ProductService  productsvc.Service
	CategoryService categorysvc.Service
	ReviewService   reviewsvc.Service
	UploadService   uploadsvc.Service
	Registry        *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(deps.Registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	// Without redis the auth endpoints run unthrottled.
	passthrough := func(next http.Handler) http.Handler { return next }
	loginLimiter, registerLimiter := passthrough, passthrough
	if deps.Redis != nil {
		loginLimiter = middleware.Throttle(middleware.LoginThrottle(cfg.AuthRateLimit), deps.Redis, logg)
		registerLimiter = middleware.Throttle(middleware.RegisterThrottle(cfg.AuthRateLimit), deps.Redis, logg)
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.Users, logg)
	requireAdmin := middleware.RequireAdmin(logg)

	r.Get("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}).ServeHTTP)

	// Stored images are public once uploaded.
	uploadsDir := http.Dir(filepath.Clean(cfg.Uploads.Dir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health(cfg))

		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimiter).Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(loginLimiter).Post("/login", controllers.Login(deps.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", controllers.Me(deps.AuthService, logg))
				r.Get("/profile", controllers.Me(deps.AuthService, logg))
				r.Put("/profile", controllers.UpdateProfile(deps.AuthService, logg))
				r.Post("/logout", controllers.Logout(logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Get("/featured", controllers.FeaturedProducts(deps.ProductService, logg))
			r.Get("/{id}", controllers.GetProduct(deps.ProductService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Post("/", controllers.CreateProduct(deps.ProductService, logg))
				r.Put("/{id}", controllers.UpdateProduct(deps.ProductService, logg))
				r.Delete("/{id}", controllers.DeleteProduct(deps.ProductService, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(deps.CategoryService, logg))
			r.Get("/{id}", controllers.GetCategory(deps.CategoryService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Post("/", controllers.CreateCategory(deps.CategoryService, logg))
				r.Put("/{id}", controllers.UpdateCategory(deps.CategoryService, logg))
				r.Delete("/{id}", controllers.DeleteCategory(deps.CategoryService, logg))
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.ListReviews(deps.ReviewService, logg))
			r.Get("/product/{productId}", controllers.ListProductReviews(deps.ReviewService, logg))
			r.Get("/{id}", controllers.GetReview(deps.ReviewService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/product/{productId}", controllers.CreateReview(deps.ReviewService, logg))
				r.Put("/{id}", controllers.UpdateReview(deps.ReviewService, logg))
				r.Delete("/{id}", controllers.DeleteReview(deps.ReviewService, logg))
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/upload", controllers.UploadImage(deps.UploadService, logg))
			r.Post("/upload-multiple", controllers.UploadImages(deps.UploadService, logg))
		})
	})

	return r
}
