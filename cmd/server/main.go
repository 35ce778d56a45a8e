package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/storekit/catalog/pkg/catalog"
	"github.com/storekit/catalog/pkg/catalog/api"
	"github.com/storekit/catalog/pkg/catalog/config"
	"github.com/storekit/catalog/pkg/catalog/imageproxy"
)

// OpsConfig covers operational knobs not part of the service wiring
type OpsConfig struct {
	ApiKeySHA256    string        `env:"API_KEY_SHA256" env-default:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"60s"`
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var ops OpsConfig
	if err := cleanenv.ReadEnv(&ops); err != nil {
		slog.Error("Failed to read environment", "error", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}
	if serverConfig.APIKeySHA256 == "" {
		serverConfig.APIKeySHA256 = ops.ApiKeySHA256
	}

	// Fail fast on an unreachable database or missing schema
	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL, serverConfig.DBSchema); err != nil {
			slog.Error("Database not reachable", "error", err)
			os.Exit(1)
		}
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	fetcher := imageproxy.New(imageproxy.WithTimeout(serverConfig.ProxyTimeout))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(svc, serverConfig, fetcher, ops),
	}

	go func() {
		slog.Info("Catalog server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"storage", serverConfig.DefaultStorageBackend,
			"database", serverConfig.DatabaseType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), ops.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func routes(svc catalog.Service, cfg *config.ServerConfig, fetcher *imageproxy.Fetcher, ops OpsConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(ops.RequestTimeout))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/health", handleHealth(cfg))

	requireKey := api.RequireAPIKey(cfg.APIKeySHA256)

	r.Route("/api", func(r chi.Router) {
		// Read paths stay open; mutations sit behind the API key
		r.Mount("/assets", api.NewAssetHandler(svc).Routes())
		r.Mount("/proxy", api.NewProxyHandler(fetcher).Routes())

		r.Group(func(r chi.Router) {
			r.Use(requireKey)
			r.Mount("/upload", api.NewUploadHandler(svc, cfg.MaxUploadBytes).Routes())
		})

		products := api.NewProductHandler(svc)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/{id}", products.GetProduct)
			r.Group(func(r chi.Router) {
				r.Use(requireKey)
				r.Post("/", products.CreateProduct)
				r.Put("/{id}", products.UpdateProduct)
				r.Delete("/{id}", products.DeleteProduct)
			})
		})

		carousel := api.NewCarouselHandler(svc)
		r.Route("/carousel", func(r chi.Router) {
			r.Get("/", carousel.ListItems)
			r.Group(func(r chi.Router) {
				r.Use(requireKey)
				r.Post("/", carousel.AddItem)
				r.Post("/reorder", carousel.Reorder)
				r.Put("/reorder", carousel.Reorder)
				r.Delete("/{id}", carousel.DeleteItem)
			})
		})
	})

	return r
}

func handleHealth(cfg *config.ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "environment": "%s", "default_storage": "%s"}`,
			cfg.Environment, cfg.DefaultStorageBackend)
	}
}
