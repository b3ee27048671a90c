package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/paydown/backend/docs"
	"github.com/paydown/backend/internal/config"
	"github.com/paydown/backend/internal/database"
	"github.com/paydown/backend/internal/handlers"
	mW "github.com/paydown/backend/internal/middleware"
	"github.com/paydown/backend/internal/repository"
	"github.com/paydown/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Debt Tracker API
// @version 1.0
// @description Debts, payments and repayment progress with a consistent stored balance
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	config.Init(".env")
	cfg := config.Load()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db := database.InitDatabase(ctx)
	defer db.Close()

	redisClient := database.InitRedis(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	store := repository.NewPostgresStore(db)
	summaryCache := services.NewSummaryCache(redisClient, cfg.Cache.SummaryTTL)
	ledger := services.NewLedgerService(store, summaryCache,
		services.NewIdempotencyStore(redisClient, cfg.Cache.IdempotencyTTL, cfg.Cache.IdempotencyPendingTTL))
	summaries := services.NewSummaryService(store, summaryCache)

	reconciler := services.NewReconciler(store, cfg.Reconcile.Repair)
	go reconciler.Run(ctx, cfg.Reconcile.Interval)

	authenticator := mW.NewAuthenticator(mW.NewJWTProvider(cfg.Auth.JWTSecret), cfg.Auth)

	// Setup router
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.IdempotencyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticator.Middleware)

		handlers.NewDebtHandler(ledger).Routes(r)
		handlers.NewPaymentHandler(ledger).Routes(r)
		handlers.NewSummaryHandler(summaries).Routes(r)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
