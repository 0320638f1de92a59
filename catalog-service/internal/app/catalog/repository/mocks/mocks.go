package mocks

import (
	"context"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPackageRepository мок для PackageRepository
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, record *entity.PackageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PackageRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PackageRecord), args.Error(1)
}

func (m *MockPackageRepository) GetAll(ctx context.Context) ([]entity.PackageRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PackageRecord), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, record *entity.PackageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPackageCache мок для PackageCache
type MockPackageCache struct {
	mock.Mock
}

func (m *MockPackageCache) SetPackages(ctx context.Context, packages []entity.PackageRecord, ttl time.Duration) error {
	args := m.Called(ctx, packages, ttl)
	return args.Error(0)
}

func (m *MockPackageCache) GetPackages(ctx context.Context) ([]entity.PackageRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PackageRecord), args.Error(1)
}

func (m *MockPackageCache) DeletePackages(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessagePublisher мок для MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCurrencyConverter мок для конвертера валют
type MockCurrencyConverter struct {
	mock.Mock
}

func (m *MockCurrencyConverter) ConvertFromUSD(ctx context.Context, target currency.Code, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, target, usdAmount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
