package main

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/internal/config"
	"github.com/nguyencaoquydieu/TelegramClient/internal/consumers"
	"github.com/nguyencaoquydieu/TelegramClient/internal/publishers"
	"github.com/nguyencaoquydieu/TelegramClient/internal/repository"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/logging"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/mq"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/mysql"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			NewLogger,
			NewConnectionDB,
			NewMQConnection,
			NewMQConsumer,

			repository.NewDeliveryLogRepository,
			consumers.NewDeliveryConsumer,
		),
		fx.Invoke(runDeliveryConsumer),
	).Run()
}

func runDeliveryConsumer(consumer consumers.DeliveryConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.DeliveryQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				if err := consumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("delivery consumer started", zap.String("queue", publishers.DeliveryQueue))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping delivery consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewLogger() (*zap.Logger, error) {
	return logging.NewLogger(logging.Config{})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), mysql.Config(cfg.Database), logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(mq.Config{URL: cfg.RabbitMQ.URL}, logger)
}

func NewMQConsumer(rabbit *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbit.CreateConsumer()
}
