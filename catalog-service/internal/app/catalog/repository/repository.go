package repository

import (
	"context"
	"errors"

	"packagecatalog/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrPackageNotFound  = errors.New("package not found")
	ErrDuplicateProduct = errors.New("product id is used twice in one package")
)

// PackageRepository хранит пакеты и снимки их товаров
// Цена пакета не хранится, ее пересчитывает entity.PackageRecord.ToPackage
type PackageRepository interface {
	Create(ctx context.Context, record *entity.PackageRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PackageRecord, error)
	GetAll(ctx context.Context) ([]entity.PackageRecord, error)
	Update(ctx context.Context, record *entity.PackageRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
