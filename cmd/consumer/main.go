package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/samber/do"
	"github.com/serroba/brand-audit/internal/container"
	"github.com/serroba/brand-audit/internal/messaging"
	"go.uber.org/zap"
)

type config struct {
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	ConsumerGroup string `env:"CONSUMER_GROUP" envDefault:"analytics"`
	LogFormat     string `env:"LOG_FORMAT"     envDefault:"console"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`
}

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	opts := container.DefaultOptions()
	opts.RedisAddr = cfg.RedisAddr
	opts.ConsumerGroup = cfg.ConsumerGroup
	opts.LogFormat = cfg.LogFormat
	opts.LogLevel = cfg.LogLevel

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	<-ctx.Done()

	logger.Info("shutting down")

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
