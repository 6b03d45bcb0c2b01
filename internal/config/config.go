package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/corray333/backend-labs/auditadmin/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/order-audit-admin")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.grpc.port", "9090")
	viper.SetDefault("audit_api.timeout_seconds", 15)
	viper.SetDefault("jaeger.endpoint", "http://jaeger:14268/api/traces")
	viper.SetDefault("postgres.migrations_path", "./migrations")
	viper.SetDefault("rabbitmq.queue", "push-notifications")
	viper.SetDefault("rabbitmq.concurrency", 50)
	viper.SetDefault("inbox.poll_interval_seconds", 10)
	viper.SetDefault("inbox.batch_size", 100)
	viper.SetDefault("inbox.max_retries", 5)
	viper.SetDefault("inbox.lease_seconds", 60)
}

func SetupLogger() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		level = slog.LevelInfo
	}
	handler := logger.NewHandler(&slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)
}
