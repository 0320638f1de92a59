package currency

import (
	"context"
	"fmt"

	"packagecatalog/pkg/metrics"

	"github.com/shopspring/decimal"
)

// MoneyScale - количество знаков после запятой у всех цен
const MoneyScale = 2

// RateSource отдает текущую таблицу курсов или nil, если курсов нет
type RateSource interface {
	GetRates(ctx context.Context) *ExchangeRateTable
}

// Converter пересчитывает суммы в USD в другую валюту через EUR
// Состояния не хранит, результаты не кеширует
type Converter struct {
	rates RateSource
}

func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// ConvertFromUSD переводит сумму в USD в валюту target
// Округление half-up до 2 знаков выполняется дважды: после перевода в EUR и в конце
// USD -> USD тоже идет через EUR, поэтому результат может отличаться от входа
func (c *Converter) ConvertFromUSD(ctx context.Context, target Code, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	if target == "" {
		metrics.RecordConversion("", metrics.StatusInvalid)
		return decimal.Decimal{}, fmt.Errorf("%w: target currency is empty", ErrInvalidArgument)
	}

	table := c.rates.GetRates(ctx)
	if table == nil {
		metrics.RecordConversion(target.String(), metrics.StatusUnavailable)
		return decimal.Decimal{}, fmt.Errorf("%w: no rate table", ErrRatesUnavailable)
	}

	usdRate, ok := table.Rate(USD)
	if !ok || !usdRate.IsPositive() {
		metrics.RecordConversion(target.String(), metrics.StatusUnavailable)
		return decimal.Decimal{}, fmt.Errorf("%w: no usable rate for %s", ErrRatesUnavailable, USD)
	}

	targetRate, ok := table.Rate(target)
	if !ok {
		metrics.RecordConversion(target.String(), metrics.StatusUnavailable)
		return decimal.Decimal{}, fmt.Errorf("%w: no rate for %s", ErrRatesUnavailable, target)
	}

	// decimal.Round и DivRound округляют половину от нуля, для неотрицательных это half-up
	eur := usdAmount.DivRound(usdRate, MoneyScale)
	result := eur.Mul(targetRate).Round(MoneyScale)

	metrics.RecordConversion(target.String(), metrics.StatusSuccess)
	return result, nil
}
