package consumers

import (
	"context"
	"encoding/json"

	"github.com/nguyencaoquydieu/TelegramClient/internal/model"
	"github.com/nguyencaoquydieu/TelegramClient/internal/publishers"
	"github.com/nguyencaoquydieu/TelegramClient/internal/repository"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/mq"
	"go.uber.org/zap"
)

type DeliveryConsumer interface {
	Consume(ctx context.Context) error
}

type deliveryConsumer struct {
	repo     repository.DeliveryLogRepository
	consumer mq.Consumer
	logger   *zap.Logger
}

func NewDeliveryConsumer(repo repository.DeliveryLogRepository, consumer mq.Consumer,
	logger *zap.Logger) DeliveryConsumer {
	return &deliveryConsumer{repo: repo, consumer: consumer, logger: logger}
}

func (d *deliveryConsumer) Consume(ctx context.Context) error {
	return d.consumer.Consume(ctx, 1, publishers.DeliveryQueue, d.handleReport)
}

func (d *deliveryConsumer) handleReport(ctx context.Context, body []byte) error {
	var report service.DeliveryReport
	if err := json.Unmarshal(body, &report); err != nil {
		d.logger.Warn("Invalid delivery report, dropping",
			zap.Error(err),
			zap.ByteString("body", body))
		return err
	}

	log := model.DeliveryLog{
		Phone:        report.Phone,
		Destination:  report.Destination,
		Text:         report.Text,
		Success:      report.Success,
		Response:     report.Response,
		ResponseTime: report.ResponseTime,
		ErrorCode:    report.ErrorCode,
		ReportedAt:   report.Timestamp,
	}

	if err := d.repo.Create(ctx, &log); err != nil {
		d.logger.Error("Failed to persist delivery report",
			zap.Error(err),
			zap.String("phone", report.Phone))
		return mq.Temporary(err)
	}

	d.logger.Debug("Delivery report persisted",
		zap.String("phone", report.Phone),
		zap.Bool("success", report.Success))

	return nil
}
