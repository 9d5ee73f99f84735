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

	"github.com/redis/go-redis/v9"

	"github.com/promptpage-dev/promptpage-backend/config"
	"github.com/promptpage-dev/promptpage-backend/internal/auth"
	"github.com/promptpage-dev/promptpage-backend/internal/bootstrap"
	"github.com/promptpage-dev/promptpage-backend/internal/generate"
)

const serviceName = "promptpage-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Generation history is optional; run without it.
		log.Printf("[warn] redis unavailable, generation history disabled: %v", err)
		rdb = nil
	}

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		DB:          db,
		Redis:       rdb,
		Generator:   generate.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
	}

	if cfg.Firebase.CredentialsPath != "" {
		authClient, err := auth.NewFirebaseAuth(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		deps.AuthClient = authClient
	} else if cfg.App.Environment == "production" {
		log.Fatal("FIREBASE_CREDENTIALS_PATH is required in production")
	} else {
		log.Println("[warn] firebase not configured, trusting X-User-Id header (development only)")
	}

	router := bootstrap.BuildRouter(deps)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("received %s, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
