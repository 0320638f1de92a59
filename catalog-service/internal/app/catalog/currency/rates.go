package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateTable - снимок курсов относительно EUR на момент получения
// Значение rate[X] - сколько единиц X стоит 1 EUR
// После создания не изменяется, поэтому безопасна для чтения из любых горутин
type ExchangeRateTable struct {
	rates     map[Code]decimal.Decimal
	date      string
	fetchedAt time.Time
}

// NewExchangeRateTable создает таблицу из уже отфильтрованных курсов
// Непустая таблица всегда содержит EUR = 1
func NewExchangeRateTable(rates map[Code]decimal.Decimal, date string, fetchedAt time.Time) *ExchangeRateTable {
	copied := make(map[Code]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		if code.IsValid() {
			copied[code] = rate
		}
	}
	if len(copied) > 0 {
		copied[EUR] = decimal.NewFromInt(1)
	}

	return &ExchangeRateTable{
		rates:     copied,
		date:      date,
		fetchedAt: fetchedAt,
	}
}

// Rate возвращает курс валюты к EUR
func (t *ExchangeRateTable) Rate(code Code) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	rate, ok := t.rates[code]
	return rate, ok
}

// Len - количество валют в таблице
func (t *ExchangeRateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rates)
}

// Date - дата курсов по данным провайдера
func (t *ExchangeRateTable) Date() string {
	return t.date
}

// FetchedAt - время получения таблицы
func (t *ExchangeRateTable) FetchedAt() time.Time {
	return t.fetchedAt
}
