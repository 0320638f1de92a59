package currency

import (
	"errors"
	"fmt"
)

var (
	// Ошибки конвертации для обработки в service и handler слоях
	ErrInvalidArgument     = errors.New("invalid conversion argument")
	ErrRatesUnavailable    = errors.New("exchange rates unavailable")
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
)

// FetchErrorKind - причина, по которой не удалось получить таблицу курсов
type FetchErrorKind int

const (
	FetchMissingCredential FetchErrorKind = iota + 1
	FetchTransport
	FetchUpstreamStatus
	FetchMalformedResponse
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchMissingCredential:
		return "missing_credential"
	case FetchTransport:
		return "transport"
	case FetchUpstreamStatus:
		return "upstream_status"
	case FetchMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// FetchError - ошибка RateProvider
// Никогда не содержит ключ доступа к API
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int    // только для FetchUpstreamStatus
	Body       string // только для FetchUpstreamStatus, обрезается до maxErrorBodyLen
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchMissingCredential:
		return "rates provider access key is not configured"
	case FetchUpstreamStatus:
		return fmt.Sprintf("rates API returned status %d: %s", e.StatusCode, e.Body)
	default:
		if e.Err != nil {
			return fmt.Sprintf("rates fetch failed (%s): %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("rates fetch failed (%s)", e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchKind проверяет, что err - FetchError указанного вида
func IsFetchKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}
