package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/dal/interfaces/iinboxrepo"
	"github.com/corray333/backend-labs/auditadmin/internal/metrics"
	"github.com/corray333/backend-labs/auditadmin/internal/rabbitmq"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/inbox"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// firstRetryDelay is how long a freshly parked message waits for the inbox worker.
const firstRetryDelay = 30 * time.Second

// service represents the service layer interface.
type service interface {
	ProcessPush(ctx context.Context, raw []byte) error
}

// Consumer represents the RabbitMQ consumer transport for push notifications.
type Consumer struct {
	client      *rabbitmq.Client
	service     service
	inboxRepo   iinboxrepo.IInboxRepository
	queueName   string
	maxRetries  int
	concurrency int
	now         func() time.Time
	stop        chan struct{}
	done        chan struct{}
}

// NewConsumer creates a new Consumer and declares its queue.
func NewConsumer(
	client *rabbitmq.Client,
	service service,
	inboxRepo iinboxrepo.IInboxRepository,
) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		panic("rabbitmq.queue is not set in config")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: viper.GetBool("rabbitmq.durable"),
	})
	if err != nil {
		panic(err)
	}

	return newConsumer(client, service, inboxRepo, queue.Name)
}

func newConsumer(
	client *rabbitmq.Client,
	service service,
	inboxRepo iinboxrepo.IInboxRepository,
	queueName string,
) *Consumer {
	concurrency := viper.GetInt("rabbitmq.concurrency")
	if concurrency <= 0 {
		concurrency = 50
	}
	maxRetries := viper.GetInt("inbox.max_retries")
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &Consumer{
		client:      client,
		service:     service,
		inboxRepo:   inboxRepo,
		queueName:   queueName,
		maxRetries:  maxRetries,
		concurrency: concurrency,
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Run starts consuming messages from RabbitMQ.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "order-audit-admin"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:     c.queueName,
		Consumer:  consumerTag,
		Exclusive: viper.GetBool("rabbitmq.exclusive"),
		NoLocal:   viper.GetBool("rabbitmq.no_local"),
		NoWait:    viper.GetBool("rabbitmq.no_wait"),
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queueName, "consumer_tag", consumerTag)

	return c.consume(ctx, msgs)
}

func (c *Consumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	go func() {
		defer close(c.done)
		for {
			select {
			case <-c.stop:
				slog.Info("Stopping consumer")

				return
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Info("Message channel closed")

					return
				}

				g.Go(func() error {
					return c.processMessage(gctx, msg)
				})
			}
		}
	}()

	<-c.done
	if err := g.Wait(); err != nil {
		slog.Error("Error processing messages", "error", err)
	}

	return nil
}

// processMessage hands a delivery to the service. Payloads that can never
// succeed are rejected, other failures are parked in the inbox.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	slog.Debug("Received message", "delivery_tag", msg.DeliveryTag, "message_id", msg.MessageId)

	err := c.service.ProcessPush(ctx, msg.Body)
	switch {
	case err == nil:
	case errors.Is(err, notification.ErrInvalidPayload):
		slog.Warn("Rejecting invalid push payload", "error", err, "message_id", msg.MessageId)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)

			return err
		}

		return nil
	default:
		slog.Error("Failed to process push payload, moving to inbox", "error", err, "message_id", msg.MessageId)
		if err := c.park(ctx, msg, err); err != nil {
			slog.Error("Failed to insert message into inbox", "error", err)
			if err := msg.Nack(false, true); err != nil {
				slog.Error("Failed to nack message", "error", err)
			}

			return err
		}
		metrics.NotificationsParkedTotal.Inc()
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	return nil
}

func (c *Consumer) park(ctx context.Context, msg amqp.Delivery, cause error) error {
	messageID := msg.MessageId
	if messageID == "" {
		messageID = uuid.NewString()
	}
	now := c.now()

	return c.inboxRepo.Insert(ctx, inbox.Message{
		MessageID:   messageID,
		QueueName:   c.queueName,
		Payload:     msg.Body,
		MaxRetries:  c.maxRetries,
		LastError:   cause.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now.Add(firstRetryDelay),
	})
}

// Shutdown gracefully shuts down the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
