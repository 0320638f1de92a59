package service

import (
	"context"
	"errors"
	"fmt"

	"packagecatalog/catalog-service/internal/app/catalog/currency"
	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/pkg/metrics"

	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

// maxProductPrice - граница колонки numeric(12,2): цена должна быть строго меньше
var maxProductPrice = decimal.New(1, 10)

// CurrencyConverter пересчитывает сумму в USD в другую валюту
type CurrencyConverter interface {
	ConvertFromUSD(ctx context.Context, target currency.Code, usdAmount decimal.Decimal) (decimal.Decimal, error)
}

// PackagePricer считает цену пакета: сумма цен товаров в USD
// и, если задана валюта, пересчет итога через CurrencyConverter
type PackagePricer struct {
	converter CurrencyConverter
}

func NewPackagePricer(converter CurrencyConverter) *PackagePricer {
	return &PackagePricer{converter: converter}
}

// ValidateProducts проверяет товары перед сохранением
// Цена обязательна, неотрицательна, не длиннее 2 знаков после запятой и меньше 10^10
func (p *PackagePricer) ValidateProducts(products []entity.Product) error {
	for i, product := range products {
		switch {
		case product.ID == "":
			return fmt.Errorf("%w: product #%d has no id", ErrInvalidProduct, i)
		case product.Name == "":
			return fmt.Errorf("%w: product %q has no name", ErrInvalidProduct, product.ID)
		case product.USDPrice == nil:
			return fmt.Errorf("%w: product %q has no price", ErrInvalidProduct, product.ID)
		case product.USDPrice.IsNegative():
			return fmt.Errorf("%w: product %q has negative price", ErrInvalidProduct, product.ID)
		case !product.USDPrice.Equal(product.USDPrice.Round(currency.MoneyScale)):
			return fmt.Errorf("%w: product %q price has more than %d decimal places", ErrInvalidProduct, product.ID, currency.MoneyScale)
		case product.USDPrice.GreaterThanOrEqual(maxProductPrice):
			return fmt.Errorf("%w: product %q price is too large", ErrInvalidProduct, product.ID)
		}
	}
	return nil
}

// PricePackage возвращает копию пакета с пересчитанной ценой
// Пустой target - цена в USD без конвертации
// Ошибка конвертации возвращается как есть, частично заполненный пакет не отдается
func (p *PackagePricer) PricePackage(ctx context.Context, pkg entity.Package, target currency.Code) (*entity.Package, error) {
	if err := p.ValidateProducts(pkg.Products); err != nil {
		return nil, err
	}

	priced := pkg
	priced.Price = entity.SumUSD(pkg.Products)
	priced.Currency = currency.USD

	if target == "" {
		return &priced, nil
	}

	converted, err := p.converter.ConvertFromUSD(ctx, target, priced.Price)
	if err != nil {
		metrics.RecordPackagePriced(target.String(), metrics.StatusFailed)
		return nil, fmt.Errorf("failed to price package in %s: %w", target, err)
	}

	priced.Price = converted
	priced.Currency = target
	metrics.RecordPackagePriced(target.String(), metrics.StatusSuccess)

	return &priced, nil
}
