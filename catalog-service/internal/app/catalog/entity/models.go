package entity

import (
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/currency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product - товар внутри пакета
// USDPrice nil означает, что цена не передана, такой товар невалиден
type Product struct {
	ID       string
	Name     string
	USDPrice *decimal.Decimal
}

// Package - набор товаров с вычисляемой ценой
// Price всегда пересчитывается из Products и не хранится в БД
type Package struct {
	ID          uuid.UUID
	Name        string
	Description string
	Products    []Product
	Price       decimal.Decimal
	Currency    currency.Code
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Currency - поддерживаемая валюта для выдачи клиенту
type Currency struct {
	Code currency.Code
	Name string
}

// PackageRecord - строка таблицы packages
type PackageRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:200;not null"`
	Description string          `gorm:"size:2000;not null"`
	Products    []ProductRecord `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PackageRecord) TableName() string {
	return "packages"
}

// ProductRecord - снимок товара в составе пакета, порядок задается Position
type ProductRecord struct {
	PackageID uuid.UUID       `gorm:"type:uuid;primaryKey;uniqueIndex:idx_package_products_product"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID string          `gorm:"size:100;not null;uniqueIndex:idx_package_products_product"`
	Name      string          `gorm:"size:200;not null"`
	USDPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ProductRecord) TableName() string {
	return "package_products"
}

// PackageEvent представляет событие изменения пакета для Kafka
type PackageEvent struct {
	EventType string    `json:"event_type"` // PACKAGE_CREATED, PACKAGE_UPDATED, PACKAGE_DELETED
	PackageID uuid.UUID `json:"package_id"`
	Name      string    `json:"name"`
	USDPrice  string    `json:"usd_price,omitempty"`
	Products  int       `json:"products"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventPackageCreated = "PACKAGE_CREATED"
	EventPackageUpdated = "PACKAGE_UPDATED"
	EventPackageDeleted = "PACKAGE_DELETED"
)
