package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/stretchr/testify/mock"
)

type BridgeService struct {
	mock.Mock
}

func (b *BridgeService) SendAndWait(ctx context.Context, cmd service.SendCommand) (service.SendResult, error) {
	args := b.Called(ctx, cmd)
	return args.Get(0).(service.SendResult), args.Error(1)
}
