package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/venue-booking/config"
	"github.com/Eursukkul/venue-booking/internal/consumer"
	"github.com/Eursukkul/venue-booking/internal/notifier"
	"github.com/Eursukkul/venue-booking/internal/repository"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/Eursukkul/venue-booking/internal/token"
	"github.com/Eursukkul/venue-booking/pkg/database"
	"github.com/Eursukkul/venue-booking/pkg/rabbitmq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	notificationQueue = "venue-booking.notifications"
	replyQueue        = "venue-booking.replies"
	shutdownTimeout   = 10 * time.Second
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), cfg, commonRun())
		},
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return database.NewSQLiteDB(cfg.SQLitePath)
	}
	return database.NewPostgresDB(cfg.DSN())
}

func newSender(cfg *config.Config, logger *slog.Logger) notifier.Sender {
	if !cfg.MailConfigured() {
		return notifier.NewLogSender(logger)
	}
	return notifier.NewSMTPSender(notifier.SMTPConfig{
		Host:     cfg.MailServer,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		UseTLS:   cfg.MailUseTLS,
	})
}

type app struct {
	bookings service.BookingService
	venues   service.VenueService
	users    service.UserService
	registry *prometheus.Registry
}

// newApp wires repositories and services over db. n may be nil, in which
// case submissions are stored without notifying anyone.
func newApp(db *gorm.DB, codec *token.Codec, n notifier.Notifier, ttl time.Duration, logger *slog.Logger) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bookingRepo := repository.NewBookingRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &app{
		bookings: service.NewBookingService(bookingRepo, venueRepo, userRepo, service.BookingServiceConfig{
			Notifier: n,
			Codec:    codec,
			TokenTTL: ttl,
			Metrics:  service.NewMetrics(registry),
			Logger:   logger,
		}),
		venues:   service.NewVenueService(venueRepo, logger),
		users:    service.NewUserService(userRepo, logger),
		registry: registry,
	}
}

func serveRun(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	codec, err := token.NewCodec(cfg.SecretKey)
	if err != nil {
		return err
	}

	mailer := notifier.NewMailer(newSender(cfg, logger), cfg.AdminEmail, cfg.BaseURL, logger)
	var n notifier.Notifier = mailer

	if cfg.NotifyTransport == "amqp" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer publisher.Close()
		n = notifier.NewQueueNotifier(publisher)

		closeFn, err := startConsumer(ctx, cfg.RabbitURL, notificationQueue, notifier.RoutingKeySubmitted,
			consumer.NewNotificationConsumer(mailer, logger).Start, logger)
		if err != nil {
			return err
		}
		defer closeFn()
	}

	a := newApp(db, codec, n, cfg.TokenTTL, logger)
	if err := seedDefaults(ctx, cfg, a, logger); err != nil {
		return err
	}

	if cfg.ReplyConsumer {
		closeFn, err := startConsumer(ctx, cfg.RabbitURL, replyQueue, consumer.RoutingKeyReply,
			consumer.NewReplyConsumer(a.bookings, logger).Start, logger)
		if err != nil {
			return err
		}
		defer closeFn()
	}

	e := newServer(a, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("venue booking service starting", "component", programName, "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down", "component", programName)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "component", programName, "error", err)
	}
	a.bookings.Wait()
	return nil
}

type startFunc func(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{}

// deliverySource is the part of rabbitmq.Consumer a consumer loop needs.
type deliverySource interface {
	Queue() string
	Consume() (<-chan amqp.Delivery, error)
	Close()
}

// startConsumer binds queue to routingKey and runs start on its deliveries.
// The returned close function stops the consumer and waits for its loop.
func startConsumer(ctx context.Context, url, queue, routingKey string, start startFunc, logger *slog.Logger) (func(), error) {
	mq, err := rabbitmq.NewConsumer(url, queue, routingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return consume(ctx, mq, routingKey, start, logger)
}

func consume(ctx context.Context, src deliverySource, routingKey string, start startFunc, logger *slog.Logger) (func(), error) {
	msgs, err := src.Consume()
	if err != nil {
		src.Close()
		return nil, err
	}
	logger.Info("consuming", "component", "rabbitmq", "queue", src.Queue(), "routing_key", routingKey)
	done := start(ctx, msgs)
	return func() {
		src.Close()
		<-done
	}, nil
}
