package currency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"packagecatalog/pkg/logger"

	"github.com/shopspring/decimal"
)

const (
	// DefaultFixerURL - endpoint последних курсов Fixer (база EUR)
	DefaultFixerURL = "http://data.fixer.io/api/latest"

	maxErrorBodyLen = 512
)

// RateProvider получает свежую таблицу курсов у внешнего источника
type RateProvider interface {
	FetchRates(ctx context.Context) (*ExchangeRateTable, error)
}

// fixerResponse - ответ Fixer API
// rates разбирается вручную, чтобы отличить отсутствие поля от пустого объекта
type fixerResponse struct {
	Success *bool           `json:"success"`
	Base    string          `json:"base"`
	Date    string          `json:"date"`
	Rates   json.RawMessage `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

// FixerClient реализует RateProvider поверх Fixer API
// Отвечает только за HTTP запрос и разбор ответа, в кеш ничего не пишет
type FixerClient struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	now        func() time.Time
}

// NewFixerClient создает клиент Fixer API
// Пустой accessKey не ошибка конструктора: FetchRates вернет FetchMissingCredential
func NewFixerClient(baseURL, accessKey string, timeoutSec int) *FixerClient {
	if baseURL == "" {
		baseURL = DefaultFixerURL
	}
	return &FixerClient{
		baseURL:   baseURL,
		accessKey: strings.TrimSpace(accessKey),
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		now: time.Now,
	}
}

// FetchRates запрашивает последние курсы относительно EUR
func (c *FixerClient) FetchRates(ctx context.Context) (*ExchangeRateTable, error) {
	if c.accessKey == "" {
		return nil, &FetchError{Kind: FetchMissingCredential}
	}

	requestURL, err := c.requestURL()
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: fmt.Errorf("invalid rates API url: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: c.redact(err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: c.redact(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Kind:       FetchUpstreamStatus,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBodyLen),
		}
	}

	return c.parse(body)
}

func (c *FixerClient) requestURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.New("cannot parse base url")
	}
	q := u.Query()
	q.Set("access_key", c.accessKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *FixerClient) parse(body []byte) (*ExchangeRateTable, error) {
	var apiResponse fixerResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, &FetchError{Kind: FetchMalformedResponse, Err: fmt.Errorf("failed to unmarshal API response: %w", err)}
	}

	raw := bytes.TrimSpace(apiResponse.Rates)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		cause := errors.New("response has no rates")
		if apiResponse.Error != nil {
			cause = fmt.Errorf("provider error %d (%s): %s", apiResponse.Error.Code, apiResponse.Error.Type, apiResponse.Error.Info)
		}
		return nil, &FetchError{Kind: FetchMalformedResponse, Err: cause}
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, &FetchError{Kind: FetchMalformedResponse, Err: fmt.Errorf("rates is not an object: %w", err)}
	}

	rates := make(map[Code]decimal.Decimal, len(values))
	for key, value := range values {
		code := Code(key)
		if !code.IsValid() {
			logger.Warn().Str("currency", key).Msg("Skipping unsupported currency from rates provider")
			continue
		}

		rate, err := decimal.NewFromString(string(bytes.TrimSpace(value)))
		if err != nil {
			return nil, &FetchError{Kind: FetchMalformedResponse, Err: fmt.Errorf("rate for %s is not a number: %w", key, err)}
		}
		rates[code] = rate
	}

	return NewExchangeRateTable(rates, apiResponse.Date, c.now()), nil
}

// redact убирает ключ доступа из ошибок net/http, которые содержат полный URL
func (c *FixerClient) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{
			Op:  urlErr.Op,
			URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(c.accessKey), "REDACTED"),
			Err: urlErr.Err,
		}
	}
	return errors.New(strings.ReplaceAll(err.Error(), c.accessKey, "REDACTED"))
}

// truncate обрезает строку до limit байт, не разрывая UTF-8 символ
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
