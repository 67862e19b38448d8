package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/internal/model"
	"github.com/stretchr/testify/mock"
)

type DeliveryLogRepository struct {
	mock.Mock
}

func (d *DeliveryLogRepository) Create(ctx context.Context, log *model.DeliveryLog) error {
	args := d.Called(ctx, log)
	return args.Error(0)
}
