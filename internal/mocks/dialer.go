package mocks

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/pkg/telegram"
	"github.com/stretchr/testify/mock"
)

type Dialer struct {
	mock.Mock
}

func (d *Dialer) Dial(ctx context.Context, account telegram.Account, codes telegram.CodeProvider) (telegram.Session, error) {
	args := d.Called(ctx, account, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(telegram.Session), args.Error(1)
}
