package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ordertrackhq/order-tracker/internal/config"
	kafkax "github.com/ordertrackhq/order-tracker/internal/kafka"
	"github.com/ordertrackhq/order-tracker/internal/mailer"
	"github.com/ordertrackhq/order-tracker/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (dedup)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Sender: real SMTP when configured, dry-run otherwise
	var sender mailer.Sender = mailer.LogSender{From: cfg.SenderEmail}
	if cfg.SMTPAddr != "" {
		sender = mailer.SMTPSender{Addr: cfg.SMTPAddr, From: cfg.SenderEmail}
	}

	svc := &mailer.Service{
		Dedup:  redisx.Dedup{RDB: rdb, Service: "mailer"},
		Sender: sender,
	}

	// Consumer
	group := getenv("MAILER_GROUP", "mailer-svc")
	workers := mustAtoi(os.Getenv("MAILER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, cfg.ConfirmTopic, workers)

	go func() {
		log.Printf("mailer consumer started: group=%s topic=%s workers=%d", group, cfg.ConfirmTopic, workers)
		if err := cons.Start(ctx, svc.HandleConfirmation); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
