package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"github.com/stretchr/testify/mock"
)

type Session struct {
	mock.Mock
}

func (s *Session) Phone() string {
	args := s.Called()
	return args.String(0)
}

func (s *Session) Resolve(ctx context.Context, destination string) (telegram.Recipient, error) {
	args := s.Called(ctx, destination)
	return args.Get(0).(telegram.Recipient), args.Error(1)
}

func (s *Session) Send(ctx context.Context, recipient telegram.Recipient, text string) error {
	args := s.Called(ctx, recipient, text)
	return args.Error(0)
}

func (s *Session) OnMessage(observer telegram.MessageObserver) {
	s.Called(observer)
}

func (s *Session) Close(ctx context.Context) error {
	args := s.Called(ctx)
	return args.Error(0)
}
