package service

import (
	"context"

	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PackageServiceInterface interface {
	GetCurrencies() []entity.Currency

	CreatePackage(ctx context.Context, pkg entity.Package) (*entity.Package, error)
	GetPackage(ctx context.Context, id uuid.UUID, currencyCode string) (*entity.Package, error)
	GetPackages(ctx context.Context, currencyCode string) ([]entity.Package, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, pkg entity.Package) (*entity.Package, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error

	Convert(ctx context.Context, currencyCode string, amount *decimal.Decimal) (decimal.Decimal, currency.Code, error)
}
