package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID       string           `json:"id" validate:"required,max=100"`
	Name     string           `json:"name" validate:"required,max=200"`
	USDPrice *decimal.Decimal `json:"usdPrice" validate:"required"`
}

type PackageDTO struct {
	Name        string       `json:"name" validate:"required,min=2,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Products    []ProductDTO `json:"products" validate:"dive"`
}

// PackageRequest - тело POST и PUT запросов: {"package": {...}}
type PackageRequest struct {
	Package *PackageDTO `json:"package" validate:"required"`
}

type ProductResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	USDPrice Money  `json:"usdPrice"`
}

type PackageResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Products    []ProductResponse `json:"products"`
	Price       Money             `json:"price"`
	Currency    string            `json:"currency"`
}

type PackageEnvelope struct {
	Package PackageResponse `json:"package"`
}

type PackageListResponse struct {
	Packages []PackageResponse `json:"packages"`
	Total    int               `json:"total"`
}

type CurrencyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CurrencyListResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
}

type ConvertResponse struct {
	Currency  string `json:"currency"`
	USDAmount Money  `json:"usd_amount"`
	Amount    Money  `json:"amount"`
}

// ErrorCode - числовой код ошибки API
type ErrorCode int

const (
	ErrCodeInternal         ErrorCode = 100
	ErrCodeRatesUnavailable ErrorCode = 101
	ErrCodeIncorrectParams  ErrorCode = 200
	ErrCodeInvalidJSON      ErrorCode = 201
	ErrCodePackageNotFound  ErrorCode = 300
)

type ErrorResponse struct {
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message,omitempty"`
	Date    time.Time `json:"date"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
