package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/internal/credentials"
	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"github.com/stretchr/testify/mock"
)

type SessionRegistry struct {
	mock.Mock
}

func (r *SessionRegistry) Start(ctx context.Context, creds []credentials.Credential) error {
	args := r.Called(ctx, creds)
	return args.Error(0)
}

func (r *SessionRegistry) Lookup(phone string) (telegram.Session, error) {
	args := r.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(telegram.Session), args.Error(1)
}

func (r *SessionRegistry) Phones() []string {
	args := r.Called()
	return args.Get(0).([]string)
}

func (r *SessionRegistry) Stop(ctx context.Context) {
	r.Called(ctx)
}
