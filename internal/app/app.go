package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/dal/auditapi"
	"github.com/corray333/backend-labs/auditadmin/internal/dal/postgres"
	inboxrepo "github.com/corray333/backend-labs/auditadmin/internal/dal/repositories/inbox/postgres"
	notificationrepo "github.com/corray333/backend-labs/auditadmin/internal/dal/repositories/notification/postgres"
	"github.com/corray333/backend-labs/auditadmin/internal/otel"
	"github.com/corray333/backend-labs/auditadmin/internal/rabbitmq"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/notifysvc"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/consumer"
	grpctransport "github.com/corray333/backend-labs/auditadmin/internal/transport/grpc"
	httptransport "github.com/corray333/backend-labs/auditadmin/internal/transport/http"
	inboxworker "github.com/corray333/backend-labs/auditadmin/internal/worker/inbox"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	httpTransp     *httptransport.HTTPTransport
	grpcTransp     *grpctransport.GRPCTransport
	consumerTransp *consumer.Consumer
	inboxWorker    *inboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	rabbitMqClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient()

	inboxRepository := inboxrepo.NewInboxRepository(
		postgresClient,
		inboxrepo.WithLease(time.Duration(viper.GetInt("inbox.lease_seconds"))*time.Second),
	)
	notificationRepository := notificationrepo.NewNotificationRepository(postgresClient)

	notifySvc := notifysvc.MustNewNotifyService(
		notifysvc.WithNotificationRepository(notificationRepository),
	)

	auditClient := auditapi.MustNewClient()

	httpTransp := httptransport.NewHTTPTransport(auditClient, notifySvc)
	httpTransp.RegisterRoutes()

	grpcTransp := grpctransport.NewGRPCTransport()

	consumerTransp := consumer.NewConsumer(rabbitMqClient, notifySvc, inboxRepository)

	inboxWorker := inboxworker.NewWorker(
		inboxRepository,
		notifySvc,
		time.Duration(viper.GetInt("inbox.poll_interval_seconds"))*time.Second,
		viper.GetInt("inbox.batch_size"),
	)

	return &App{
		httpTransp:     httpTransp,
		grpcTransp:     grpcTransp,
		consumerTransp: consumerTransp,
		inboxWorker:    inboxWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := a.httpTransp.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		if err := a.grpcTransp.Run(); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting inbox worker")
		a.inboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops the servers first, then the background processing,
// and finally closes RabbitMQ, PostgreSQL and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpTransp.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.grpcTransp.Shutdown(ctx); err != nil {
		slog.Error("gRPC server shutdown error", "error", err)
	} else {
		slog.Info("gRPC server stopped gracefully")
	}

	a.inboxWorker.Stop()
	slog.Info("Inbox worker stopped gracefully")

	if err := a.consumerTransp.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
