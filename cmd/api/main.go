package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ordertrackhq/order-tracker/internal/config"
	"github.com/ordertrackhq/order-tracker/internal/httpx"
	kafkax "github.com/ordertrackhq/order-tracker/internal/kafka"
	"github.com/ordertrackhq/order-tracker/internal/notify"
	"github.com/ordertrackhq/order-tracker/internal/orders"
	"github.com/ordertrackhq/order-tracker/internal/postgres"
	"github.com/ordertrackhq/order-tracker/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Record store
	var store orders.Store
	switch cfg.StoreBackend {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		pgStore, err := postgres.NewStore(ctx, db, cfg.OrdersTable)
		if err != nil {
			log.Fatalf("store init: %v", err)
		}
		pgStore.StartSweeper(ctx, time.Hour)
		store = pgStore
	case "memory":
		store = orders.NewMemoryStore()
	default:
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		store = redisx.NewStore(rdb, cfg.OrdersTable)
	}

	// Confirmation producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, cfg.ConfirmTopic, 1024)
	prod.Start(ctx)

	// Router & handler
	router := httpx.NewRouter([]byte(cfg.JWTSecret))
	oh := &httpx.OrdersHandler{
		Store:    store,
		Notifier: &notify.KafkaNotifier{Producer: prod, Service: cfg.ServiceName},
	}
	oh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
