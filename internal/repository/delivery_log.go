package repository

import (
	"context"

	"github.com/nguyencaoquydieu/TelegramClient/internal/model"
	"gorm.io/gorm"
)

type DeliveryLogRepository interface {
	Create(ctx context.Context, log *model.DeliveryLog) error
}

type DeliveryLog struct {
	db *gorm.DB
}

func NewDeliveryLogRepository(db *gorm.DB) DeliveryLogRepository {
	return &DeliveryLog{db: db}
}

func (d *DeliveryLog) Create(ctx context.Context, log *model.DeliveryLog) error {
	return d.db.WithContext(ctx).Create(log).Error
}
