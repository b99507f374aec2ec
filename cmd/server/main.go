package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kyle/bowling-center-server/internal/api"
	"github.com/kyle/bowling-center-server/internal/config"
	"github.com/kyle/bowling-center-server/internal/lanenet"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/kyle/bowling-center-server/internal/notify"
	"github.com/kyle/bowling-center-server/internal/repository/postgres"
	"github.com/kyle/bowling-center-server/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Notification fan-out: WebSocket hub always, Kafka mirror when enabled
	hub := notify.NewHub()
	go hub.Run()

	kafka := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEnabled)
	defer kafka.Close()

	publisher := notify.Multi{hub, kafka}

	// League engine and backing services
	engine := league.NewEngine(repos, publisher)
	authService := service.NewAuthService(repos.Operator, cfg)

	// Lane protocol stack
	registry := lanenet.NewRegistry(cfg.HeartbeatTimeout, publisher)
	sync := lanenet.NewSynchronizer(registry, engine, publisher)
	laneRouter := lanenet.NewRouter(registry, sync)
	laneServer := lanenet.NewServer("0.0.0.0:"+cfg.LanePort, registry, laneRouter)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go registry.Run(rootCtx, cfg.LivenessInterval)
	go engine.RunMaintenance(rootCtx, cfg.MaintenanceInterval)

	go func() {
		log.Printf("Lane server starting on port %s", cfg.LanePort)
		if err := laneServer.ListenAndServe(); err != nil {
			log.Fatalf("failed to start lane server: %v", err)
		}
	}()

	// HTTP management API
	router := api.NewRouter(api.Deps{
		Auth:      authService,
		Engine:    engine,
		Registry:  registry,
		Sync:      sync,
		Hub:       hub,
		Publisher: publisher,
		Repos:     repos,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := laneServer.Shutdown(ctx); err != nil {
		log.Printf("ERROR [lanenet] shutdown: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server stopped")
}
