package util

import (
	"context"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/entity"
)

// PackageCache интерфейс кеша списка пакетов (цены в USD)
// Используется для dependency injection и упрощения тестирования
type PackageCache interface {
	SetPackages(ctx context.Context, packages []entity.PackageRecord, ttl time.Duration) error
	// GetPackages возвращает nil, nil при промахе
	GetPackages(ctx context.Context) ([]entity.PackageRecord, error)
	DeletePackages(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
