package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/cbydainnt/mygraduationproject/internal/cart"
	"github.com/cbydainnt/mygraduationproject/internal/gateway"
	h "github.com/cbydainnt/mygraduationproject/internal/http"
	"github.com/cbydainnt/mygraduationproject/internal/session"
	"github.com/cbydainnt/mygraduationproject/internal/store"
)

type Config struct {
	HTTPPort        string
	CartAPIBaseURL  string
	StoreBackend    string
	StorePath       string
	RedisAddr       string
	RedisPassword   string
	RedisKey        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CartAPIBaseURL:  getEnv("CART_API_BASE_URL", "http://localhost:8081/api"),
		StoreBackend:    getEnv("CART_STORE", "file"),
		StorePath:       getEnv("CART_STORE_PATH", "data/cart.json"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisKey:        getEnv("CART_REDIS_KEY", "storefront:cart"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	snapshots, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("failed to build cart store: %v", err)
	}
	defer cleanup()

	state := session.NewState()
	gw := gateway.NewHTTPGateway(cfg.CartAPIBaseURL, state, cfg.RequestTimeout)
	engine := cart.NewEngine(snapshots, gw, state.Authed)

	coordinator := session.NewCoordinator(engine, cfg.RequestTimeout)
	coordinator.Bind(state)

	cartHandler := h.NewCartHandler(engine, cfg.RequestTimeout)
	sessionHandler := h.NewSessionHandler(state)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/refresh", cartHandler.RefreshCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Put("/selected", cartHandler.SetAllSelected)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/batch", cartHandler.RemoveItems)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Put("/items/{product_id}/selected", cartHandler.SetItemSelected)
		})
		r.Route("/session", func(r chi.Router) {
			r.Post("/login", sessionHandler.Login)
			r.Post("/logout", sessionHandler.Logout)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront cart service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func buildStore(cfg *Config) (store.SnapshotStore, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Printf("using redis cart store at %s", cfg.RedisAddr)
		return store.NewRedisStore(client, cfg.RedisKey), func() { client.Close() }, nil
	default:
		log.Printf("using file cart store at %s", cfg.StorePath)
		return store.NewFileStore(cfg.StorePath), func() {}, nil
	}
}
