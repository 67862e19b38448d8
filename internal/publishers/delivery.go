package publishers

import (
	"context"
	"encoding/json"

	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/mq"
	"go.uber.org/zap"
)

// DeliveryQueue is where the bridge publishes a report per completed
// operation; cmd/worker-delivery drains it.
const DeliveryQueue = "bridge.delivery"

type deliveryPublisher struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewDeliveryPublisher(publisher mq.Publisher, logger *zap.Logger) service.ReportPublisher {
	return &deliveryPublisher{publisher: publisher, logger: logger}
}

func (d *deliveryPublisher) PublishReport(ctx context.Context, report service.DeliveryReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}

	if err := d.publisher.Publish(ctx, "", DeliveryQueue, body); err != nil {
		return err
	}

	d.logger.Debug("Published delivery report",
		zap.String("phone", report.Phone),
		zap.Bool("success", report.Success))

	return nil
}
