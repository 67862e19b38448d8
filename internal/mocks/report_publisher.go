package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/stretchr/testify/mock"
)

type ReportPublisher struct {
	mock.Mock
}

func (r *ReportPublisher) PublishReport(ctx context.Context, report service.DeliveryReport) error {
	args := r.Called(ctx, report)
	return args.Error(0)
}
