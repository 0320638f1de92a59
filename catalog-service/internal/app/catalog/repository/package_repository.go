package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	metricsService = "catalog"
	packagesTable  = "packages"
)

type packageRepository struct {
	db *gorm.DB
}

// NewPackageRepository создает новый репозиторий пакетов
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

// Create сохраняет пакет и его товары в одной транзакции
// ID назначается здесь, если не был задан
func (r *packageRepository) Create(ctx context.Context, record *entity.PackageRecord) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpInsert, packagesTable)
	defer timer.ObserveDuration()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	normalizeProducts(record)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
			return err
		}
		if len(record.Products) > 0 {
			if err := tx.Create(&record.Products).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return r.mapError(metrics.DbOpInsert, "create", err)
}

// GetByID получает пакет по ID вместе с товарами в исходном порядке
func (r *packageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PackageRecord, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, packagesTable)
	defer timer.ObserveDuration()

	var record entity.PackageRecord
	err := r.db.WithContext(ctx).
		Preload("Products", orderByPosition).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, r.mapError(metrics.DbOpSelect, "get", err)
	}

	return &record, nil
}

// GetAll получает все пакеты в порядке создания
// Результат может быть закеширован в Redis через service layer
func (r *packageRepository) GetAll(ctx context.Context) ([]entity.PackageRecord, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, packagesTable)
	defer timer.ObserveDuration()

	var records []entity.PackageRecord
	err := r.db.WithContext(ctx).
		Preload("Products", orderByPosition).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, r.mapError(metrics.DbOpSelect, "list", err)
	}

	return records, nil
}

// Update обновляет поля пакета и полностью заменяет список товаров
func (r *packageRepository) Update(ctx context.Context, record *entity.PackageRecord) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, packagesTable)
	defer timer.ObserveDuration()

	normalizeProducts(record)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.PackageRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"name":        record.Name,
				"description": record.Description,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPackageNotFound
		}

		if err := tx.Where("package_id = ?", record.ID).Delete(&entity.ProductRecord{}).Error; err != nil {
			return err
		}
		if len(record.Products) > 0 {
			if err := tx.Create(&record.Products).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return r.mapError(metrics.DbOpUpdate, "update", err)
}

// Delete удаляет пакет, товары удаляются каскадно
func (r *packageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpDelete, packagesTable)
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.PackageRecord{}, "id = ?", id)
	if result.Error != nil {
		return r.mapError(metrics.DbOpDelete, "delete", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrPackageNotFound
	}

	return nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// normalizeProducts проставляет товарам ID пакета и позицию по индексу
func normalizeProducts(record *entity.PackageRecord) {
	for i := range record.Products {
		record.Products[i].PackageID = record.ID
		record.Products[i].Position = i
	}
}

func (r *packageRepository) mapError(op metrics.DbOperation, action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrPackageNotFound) {
		return ErrPackageNotFound
	}

	metrics.RecordDbError(metricsService, op)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return ErrDuplicateProduct
	}

	return fmt.Errorf("failed to %s package: %w", action, err)
}
