package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/catalog-service/internal/app/catalog/repository"
	"packagecatalog/catalog-service/internal/app/catalog/util"
	"packagecatalog/pkg/logger"
	"packagecatalog/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrPackageNotFound = errors.New("package not found")
)

// PackageService обрабатывает бизнес-логику каталога пакетов
// Координирует работу репозитория, Redis кеша, Kafka producer и расчета цен
type PackageService struct {
	repo      repository.PackageRepository
	pricer    *PackagePricer
	cache     util.PackageCache
	publisher util.MessagePublisher
	cacheTTL  time.Duration
}

// NewPackageService создает новый сервис пакетов с внедрением зависимостей
func NewPackageService(
	repo repository.PackageRepository,
	pricer *PackagePricer,
	cache util.PackageCache,
	publisher util.MessagePublisher,
	cacheTTL time.Duration,
) *PackageService {
	return &PackageService{
		repo:      repo,
		pricer:    pricer,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
	}
}

// === CURRENCIES ===

// GetCurrencies возвращает все поддерживаемые валюты
func (s *PackageService) GetCurrencies() []entity.Currency {
	codes := currency.Codes()
	currencies := make([]entity.Currency, 0, len(codes))
	for _, code := range codes {
		currencies = append(currencies, entity.Currency{Code: code, Name: code.Name()})
	}
	return currencies
}

// Convert пересчитывает сумму в USD в указанную валюту
func (s *PackageService) Convert(ctx context.Context, currencyCode string, amount *decimal.Decimal) (decimal.Decimal, currency.Code, error) {
	if amount == nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: amount is required", currency.ErrInvalidArgument)
	}
	if currencyCode == "" {
		return decimal.Decimal{}, "", fmt.Errorf("%w: currency is required", currency.ErrInvalidArgument)
	}

	target, err := currency.ParseCode(currencyCode)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	result, err := s.pricer.converter.ConvertFromUSD(ctx, target, *amount)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	logger.Debug().
		Str("currency", target.String()).
		Str("usd_amount", amount.String()).
		Str("amount", result.String()).
		Msg("Converted amount")

	return result, target, nil
}

// === PACKAGES ===

// CreatePackage сохраняет новый пакет и инвалидирует кеш списка
// ID назначает хранилище, цена считается заново из товаров
func (s *PackageService) CreatePackage(ctx context.Context, pkg entity.Package) (*entity.Package, error) {
	if err := s.pricer.ValidateProducts(pkg.Products); err != nil {
		return nil, err
	}

	pkg.ID = uuid.Nil
	record := entity.NewPackageRecord(pkg)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	created := record.ToPackage()
	metrics.PackagesCreated.Inc()

	s.invalidateCache(ctx)
	s.publishEvent(ctx, entity.EventPackageCreated, created)

	logger.Info().
		Str("package_id", created.ID.String()).
		Int("products", len(created.Products)).
		Msg("Package created")

	return &created, nil
}

// GetPackage получает пакет по ID, при заданной валюте пересчитывает цену
func (s *PackageService) GetPackage(ctx context.Context, id uuid.UUID, currencyCode string) (*entity.Package, error) {
	target, err := parseTarget(currencyCode)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	return s.pricer.PricePackage(ctx, record.ToPackage(), target)
}

// GetPackages получает все пакеты с кешированием списка в Redis
// В кеше лежат цены в USD, пересчет в валюту выполняется на каждый запрос
func (s *PackageService) GetPackages(ctx context.Context, currencyCode string) ([]entity.Package, error) {
	target, err := parseTarget(currencyCode)
	if err != nil {
		return nil, err
	}

	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	packages := make([]entity.Package, 0, len(records))
	for _, record := range records {
		priced, err := s.pricer.PricePackage(ctx, record.ToPackage(), target)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *priced)
	}

	return packages, nil
}

// UpdatePackage заменяет поля и список товаров пакета
func (s *PackageService) UpdatePackage(ctx context.Context, id uuid.UUID, pkg entity.Package) (*entity.Package, error) {
	if err := s.pricer.ValidateProducts(pkg.Products); err != nil {
		return nil, err
	}

	pkg.ID = id
	record := entity.NewPackageRecord(pkg)
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	updated := record.ToPackage()

	s.invalidateCache(ctx)
	s.publishEvent(ctx, entity.EventPackageUpdated, updated)

	logger.Info().Str("package_id", id.String()).Msg("Package updated")

	return &updated, nil
}

// DeletePackage удаляет пакет и инвалидирует кеш
func (s *PackageService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return ErrPackageNotFound
		}
		return fmt.Errorf("failed to delete package: %w", err)
	}

	s.invalidateCache(ctx)
	s.publishEvent(ctx, entity.EventPackageDeleted, entity.Package{ID: id})

	logger.Info().Str("package_id", id.String()).Msg("Package deleted")

	return nil
}

// loadRecords читает список из кеша, при промахе или ошибке кеша - из PostgreSQL
func (s *PackageService) loadRecords(ctx context.Context) ([]entity.PackageRecord, error) {
	records, err := s.cache.GetPackages(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read packages from cache")
	}
	if err == nil && records != nil {
		return records, nil
	}

	records, err = s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get packages: %w", err)
	}
	if records == nil {
		records = []entity.PackageRecord{}
	}

	if err := s.cache.SetPackages(ctx, records, s.cacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("Failed to cache packages")
	}

	return records, nil
}

func (s *PackageService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeletePackages(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate packages cache")
	}
}

// publishEvent отправляет событие о пакете в Kafka
// Ошибка только логируется: пакет уже сохранен
func (s *PackageService) publishEvent(ctx context.Context, eventType string, pkg entity.Package) {
	event := entity.PackageEvent{
		EventType: eventType,
		PackageID: pkg.ID,
		Name:      pkg.Name,
		Products:  len(pkg.Products),
		Timestamp: time.Now(),
	}
	if eventType != entity.EventPackageDeleted {
		event.USDPrice = pkg.Price.StringFixed(currency.MoneyScale)
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal package event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, pkg.ID.String(), eventData); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("package_id", pkg.ID.String()).
			Msg("Failed to publish package event")
	}
}

// parseTarget разбирает необязательный параметр валюты
func parseTarget(currencyCode string) (currency.Code, error) {
	if currencyCode == "" {
		return "", nil
	}
	return currency.ParseCode(currencyCode)
}
