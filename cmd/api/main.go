package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/nguyencaoquydieu/TelegramClient/internal/api"
	"github.com/nguyencaoquydieu/TelegramClient/internal/api/middleware"
	v1 "github.com/nguyencaoquydieu/TelegramClient/internal/api/v1"
	"github.com/nguyencaoquydieu/TelegramClient/internal/bridge"
	"github.com/nguyencaoquydieu/TelegramClient/internal/config"
	"github.com/nguyencaoquydieu/TelegramClient/internal/publishers"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/httpclient"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/logging"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/mq"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			NewLogger,
			NewFiberApp,
			NewMQConnection,
			NewMQPublisher,

			NewDialer,
			NewCodeProvider,
			service.NewCorrelator,
			NewGate,
			service.NewSessionRegistry,
			publishers.NewDeliveryPublisher,
			service.NewBridgeService,
			bridge.NewController,

			v1.NewHandler,
		),
		fx.Invoke(startBridge),
	).Run()
}

func startBridge(app *fiber.App, handler *v1.Handler, controller *bridge.Controller, cfg *config.Config,
	rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle,
) {
	api.SetupRoutes(app, handler)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.DeliveryQueue}); err != nil {
				return err
			}

			if err := controller.Start(ctx); err != nil {
				return err
			}

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("API server exited", zap.Error(err))
				}
			}()

			logger.Info("API server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			controller.Stop(ctx)

			if err := rabbit.Close(); err != nil {
				logger.Error("Failed to close RabbitMQ connection", zap.Error(err))
			}

			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewLogger() (*zap.Logger, error) {
	return logging.NewLogger(logging.Config{})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func NewGate(cfg *config.Config) *service.Gate {
	return service.NewGate(cfg.Telegram.GateScope == config.GateScopeGlobal)
}

func NewDialer(cfg *config.Config, logger *zap.Logger) telegram.Dialer {
	return telegram.NewDialer(cfg.Telegram.SessionDir, logger)
}

func NewCodeProvider(cfg *config.Config) telegram.CodeProvider {
	if cfg.Telegram.CodeURL != "" {
		return &telegram.WebhookCodeProvider{
			URL:    cfg.Telegram.CodeURL,
			Client: httpclient.NewHTTPClient(cfg.Telegram.RequestTimeout),
		}
	}

	return &telegram.PromptCodeProvider{In: os.Stdin, Out: os.Stdout}
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(mq.Config{URL: cfg.RabbitMQ.URL}, logger)
}

func NewMQPublisher(rabbit *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbit.CreatePublisher()
}
