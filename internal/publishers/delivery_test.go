package publishers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nguyencaoquydieu/TelegramClient/internal/publishers"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDeliveryPublisher_PublishReport(t *testing.T) {
	response := "pong"
	report := service.DeliveryReport{
		Phone:        "+84123456789",
		Destination:  "+84987654321",
		Text:         "ping",
		Success:      true,
		Response:     &response,
		ResponseTime: 1.5,
		Timestamp:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("publishes to the delivery queue", func(t *testing.T) {
		mq := &mocks.Publisher{}

		var published []byte
		mq.On("Publish", mock.Anything, "", publishers.DeliveryQueue, mock.AnythingOfType("[]uint8")).
			Run(func(args mock.Arguments) {
				published = args.Get(3).([]byte)
			}).Return(nil)

		publisher := publishers.NewDeliveryPublisher(mq, zap.NewNop())
		require.NoError(t, publisher.PublishReport(context.Background(), report))

		var decoded service.DeliveryReport
		require.NoError(t, json.Unmarshal(published, &decoded))
		assert.Equal(t, report, decoded)

		mq.AssertExpectations(t)
	})

	t.Run("propagates broker failure", func(t *testing.T) {
		mq := &mocks.Publisher{}
		mq.On("Publish", mock.Anything, "", publishers.DeliveryQueue, mock.Anything).
			Return(errors.New("channel closed"))

		publisher := publishers.NewDeliveryPublisher(mq, zap.NewNop())
		assert.Error(t, publisher.PublishReport(context.Background(), report))
	})
}
