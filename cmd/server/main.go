package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/config"
	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/policy"
	"github.com/joho/godotenv"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seed := db.SeedInput{
		AdminCIN:      cfg.App.AdminCIN,
		AdminPassword: cfg.App.AdminPassword,
		AdminName:     cfg.App.AdminName,
		CompanyName:   cfg.App.CompanyName,
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn, cfg.App.Migrations, cfg.Database.URL()); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(dbConn, seed); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seeding completed successfully")
		return
	}

	if err := db.Migrate(dbConn, cfg.App.Migrations, cfg.Database.URL()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := db.Seed(dbConn, seed); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.SessionSecret, cfg.Auth.TokenTTL)
	if cfg.Auth.JWTSecret == "dev-secret" && !cfg.App.Dev {
		log.Println("WARNING: JWT_SECRET is the development default")
	}

	routerCfg := policy.NewRouterConfig(dbConn, cfg)

	// Tokens of deleted accounts stop working immediately.
	auth.SetUserVerifier(routerCfg.AuthService.Exists)

	appHandler := NewApp(dbConn, routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.Recover(middleware.Logging(appHandler)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on port %s (dev=%v, tz=%s)", cfg.Server.Port, cfg.App.Dev, routerCfg.Loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
