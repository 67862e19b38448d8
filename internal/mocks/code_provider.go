package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type CodeProvider struct {
	mock.Mock
}

func (c *CodeProvider) RequestCode(ctx context.Context, phone string) (string, error) {
	args := c.Called(ctx, phone)
	return args.String(0), args.Error(1)
}
