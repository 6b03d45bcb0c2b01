package rabbitmq

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// Client holds the AMQP connection and the single channel push consumption runs on.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Close closes the channel and connection for graceful shutdown.
func (r *Client) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return err
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}

	return nil
}

// URL builds the broker address from rabbitmq.* settings.
func URL() string {
	host := viper.GetString("rabbitmq.host")
	port := viper.GetInt("rabbitmq.port")
	vhost := viper.GetString("rabbitmq.vhost")

	if host == "" {
		host = "rabbitmq"
	}
	if port == 0 {
		port = 5672
	}

	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(viper.GetString("rabbitmq.user"), viper.GetString("rabbitmq.password")),
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/" + vhost,
	}

	return u.String()
}

// MustNewClient connects to RabbitMQ and applies the consumer prefetch limit.
func MustNewClient() *Client {
	conn, err := amqp.Dial(URL())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to RabbitMQ: %v", err))
	}

	channel, err := conn.Channel()
	if err != nil {
		if err := conn.Close(); err != nil {
			panic(fmt.Sprintf("Failed to close a connection: %v", err))
		}
		panic(fmt.Sprintf("Failed to open a channel: %v", err))
	}

	if prefetch := viper.GetInt("rabbitmq.prefetch"); prefetch > 0 {
		if err := channel.Qos(prefetch, 0, false); err != nil {
			panic(fmt.Sprintf("Failed to set channel prefetch: %v", err))
		}
	}

	slog.Info("RabbitMQ connected", "host", conn.LocalAddr().String())

	return &Client{
		conn:    conn,
		channel: channel,
	}
}

type DeclareQueueConfig struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DeclareQueue declares a queue with the given configuration.
func (r *Client) DeclareQueue(cfg DeclareQueueConfig) (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		cfg.Name,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		cfg.Args,
	)
}

type ConsumeConfig struct {
	Queue     string
	Consumer  string
	AutoAck   bool
	Exclusive bool
	NoLocal   bool
	NoWait    bool
	Args      amqp.Table
}

// Consume starts consuming messages from the queue.
func (r *Client) Consume(cfg ConsumeConfig) (<-chan amqp.Delivery, error) {
	return r.channel.Consume(
		cfg.Queue,
		cfg.Consumer,
		cfg.AutoAck,
		cfg.Exclusive,
		cfg.NoLocal,
		cfg.NoWait,
		cfg.Args,
	)
}
