package currency

import (
	"fmt"
	"strings"
)

// Code - ISO код валюты из фиксированного списка поддерживаемых валют
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	CHF Code = "CHF"
	CAD Code = "CAD"
	AUD Code = "AUD"
	NZD Code = "NZD"
	CNY Code = "CNY"
	HKD Code = "HKD"
	SGD Code = "SGD"
	SEK Code = "SEK"
	NOK Code = "NOK"
	DKK Code = "DKK"
	PLN Code = "PLN"
	CZK Code = "CZK"
	HUF Code = "HUF"
	RUB Code = "RUB"
	TRY Code = "TRY"
	INR Code = "INR"
	KRW Code = "KRW"
	BRL Code = "BRL"
	MXN Code = "MXN"
	ZAR Code = "ZAR"
	ILS Code = "ILS"
	AED Code = "AED"
	THB Code = "THB"
)

// codeNames задает порядок и человекочитаемые названия валют
var codeNames = []struct {
	code Code
	name string
}{
	{USD, "United States Dollar"},
	{EUR, "Euro"},
	{GBP, "British Pound Sterling"},
	{JPY, "Japanese Yen"},
	{CHF, "Swiss Franc"},
	{CAD, "Canadian Dollar"},
	{AUD, "Australian Dollar"},
	{NZD, "New Zealand Dollar"},
	{CNY, "Chinese Yuan"},
	{HKD, "Hong Kong Dollar"},
	{SGD, "Singapore Dollar"},
	{SEK, "Swedish Krona"},
	{NOK, "Norwegian Krone"},
	{DKK, "Danish Krone"},
	{PLN, "Polish Zloty"},
	{CZK, "Czech Koruna"},
	{HUF, "Hungarian Forint"},
	{RUB, "Russian Ruble"},
	{TRY, "Turkish Lira"},
	{INR, "Indian Rupee"},
	{KRW, "South Korean Won"},
	{BRL, "Brazilian Real"},
	{MXN, "Mexican Peso"},
	{ZAR, "South African Rand"},
	{ILS, "Israeli New Sheqel"},
	{AED, "United Arab Emirates Dirham"},
	{THB, "Thai Baht"},
}

var knownCodes = func() map[Code]string {
	m := make(map[Code]string, len(codeNames))
	for _, c := range codeNames {
		m[c.code] = c.name
	}
	return m
}()

// Codes возвращает все поддерживаемые валюты в фиксированном порядке
func Codes() []Code {
	codes := make([]Code, 0, len(codeNames))
	for _, c := range codeNames {
		codes = append(codes, c.code)
	}
	return codes
}

// IsValid проверяет, что код входит в список поддерживаемых
func (c Code) IsValid() bool {
	_, ok := knownCodes[c]
	return ok
}

// Name возвращает название валюты или пустую строку для неизвестного кода
func (c Code) Name() string {
	return knownCodes[c]
}

func (c Code) String() string {
	return string(c)
}

// ParseCode преобразует строку в Code
// Пробелы по краям отбрасываются, регистр не важен
func ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrencyCode, s)
	}
	return code, nil
}
