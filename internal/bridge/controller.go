// Package bridge exposes the start/stop/status surface a front end or
// process supervisor drives.
package bridge

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/nguyencaoquydieu/TelegramClient/internal/config"
	"github.com/nguyencaoquydieu/TelegramClient/internal/credentials"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"go.uber.org/zap"
)

type Controller struct {
	registry  service.SessionRegistry
	credsFile string
	logger    *zap.Logger
	running   atomic.Bool
}

func NewController(registry service.SessionRegistry, cfg *config.Config, logger *zap.Logger) *Controller {
	return &Controller{
		registry:  registry,
		credsFile: cfg.Telegram.CredentialsFile,
		logger:    logger,
	}
}

// Start loads the credential list and brings up every account session.
// Blocks until each account is connected or skipped.
func (c *Controller) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("bridge already running")
	}

	creds, err := credentials.Load(c.credsFile)
	if err != nil {
		c.running.Store(false)
		return err
	}

	if err := c.registry.Start(ctx, creds); err != nil {
		c.running.Store(false)
		return err
	}

	c.logger.Info("Bridge started", zap.Strings("phones", c.registry.Phones()))
	return nil
}

func (c *Controller) Stop(ctx context.Context) {
	if !c.running.CompareAndSwap(true, false) {
		return
	}

	c.registry.Stop(ctx)
	c.logger.Info("Bridge stopped")
}

func (c *Controller) IsRunning() bool {
	return c.running.Load()
}
