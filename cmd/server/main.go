package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VivanRajath/Neusearch/config"
	"github.com/VivanRajath/Neusearch/internal/api"
	"github.com/VivanRajath/Neusearch/internal/broker"
	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/detail"
	"github.com/VivanRajath/Neusearch/internal/redisclient"
	"github.com/VivanRajath/Neusearch/internal/session"
	"github.com/VivanRajath/Neusearch/internal/upstream"
	"github.com/VivanRajath/Neusearch/internal/util"
	"github.com/VivanRajath/Neusearch/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting catalog session gateway")

	tp, err := util.InitTracer("neusearch-gateway", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	log.Printf("Upstream client initialized: %s", cfg.Upstream.BaseURL)

	// The snapshot cache is an optimization; the gateway serves without it.
	var source catalog.Source = upstreamClient
	var invalidator api.SnapshotInvalidator
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SnapshotTTL)
	if err != nil {
		log.Printf("Redis unavailable, serving without snapshot cache: %v", err)
	} else {
		defer redisClient.Close()
		source = redisclient.NewCachedSource(redisClient, upstreamClient)
		invalidator = redisClient
		log.Println("Redis snapshot cache connected")
	}

	var producer *broker.Producer
	if cfg.Kafka.Enabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		log.Println("Kafka producer initialized")
	}
	eventPublisher := broker.NewEventPublisher(producer)

	engine := catalog.NewEngine(source, cfg.Catalog.PageSize)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
	if err := engine.Reload(loadCtx); err != nil {
		log.Printf("Initial catalog load failed, starting with empty snapshot: %v", err)
	}
	loadCancel()

	var fetcher detail.Fetcher = upstreamClient
	if cfg.Upstream.BulkDetail {
		fetcher = detail.NewBulkFetcher(source)
		log.Println("Detail resolution running in bulk-endpoint mode")
	}

	sessions := session.NewManager(engine, upstreamClient, fetcher, cfg.Session.IdleTTL)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	refresher := worker.NewCatalogRefresher(engine, eventPublisher, cfg.Catalog.RefreshInterval)
	go func() {
		if err := refresher.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Catalog refresher error: %v", err)
		}
	}()

	sweeper := worker.NewSessionSweeper(sessions, cfg.Session.SweepInterval)
	go func() {
		if err := sweeper.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Session sweeper error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(engine, sessions, eventPublisher, invalidator)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	refresher.Stop()
	sweeper.Stop()

	log.Println("Server exited")
}
