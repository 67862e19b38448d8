package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type Publisher struct {
	mock.Mock
}

func (p *Publisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	args := p.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}

type Consumer struct {
	mock.Mock
}

func (c *Consumer) Consume(ctx context.Context, prefetch int, queue string, handler mq.Handle) error {
	args := c.Called(ctx, prefetch, queue, handler)
	return args.Error(0)
}
