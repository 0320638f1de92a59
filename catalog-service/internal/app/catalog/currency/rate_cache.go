package currency

import (
	"context"
	"sync"
	"sync/atomic"

	"packagecatalog/pkg/logger"
	"packagecatalog/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

const ratesFlightKey = "rates"

// RateCache хранит одну таблицу курсов на все время жизни процесса
// Таблица запрашивается у провайдера не более одного раза за холодный период:
// конкурентные вызовы во время загрузки ждут результата текущего запроса
// Неудачная загрузка оставляет кеш пустым, следующий вызов пробует снова
type RateCache struct {
	provider RateProvider
	table    atomic.Pointer[ExchangeRateTable]
	group    singleflight.Group

	mu      sync.RWMutex
	lastErr error

	// joinedFlight вызывается после регистрации вызывающего в текущей загрузке, nil вне тестов
	joinedFlight func()
}

// NewRateCache создает пустой кеш курсов
func NewRateCache(provider RateProvider) *RateCache {
	metrics.SetRateCacheReady(false)
	return &RateCache{provider: provider}
}

// GetRates возвращает таблицу курсов или nil, если ее не удалось получить
// ctx ограничивает только ожидание вызывающего, сам запрос к провайдеру не отменяется
func (c *RateCache) GetRates(ctx context.Context) *ExchangeRateTable {
	if table := c.table.Load(); table != nil {
		return table
	}

	ch := c.group.DoChan(ratesFlightKey, func() (interface{}, error) {
		// Повторная проверка: загрузка могла завершиться, пока мы ждали входа
		if table := c.table.Load(); table != nil {
			return table, nil
		}
		return c.load(context.WithoutCancel(ctx))
	})
	if c.joinedFlight != nil {
		c.joinedFlight()
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil
		}
		return res.Val.(*ExchangeRateTable)
	case <-ctx.Done():
		logger.Debug().Err(ctx.Err()).Msg("Stopped waiting for exchange rates")
		return nil
	}
}

func (c *RateCache) load(ctx context.Context) (*ExchangeRateTable, error) {
	timer := metrics.NewTimer()
	logger.Info().Msg("Fetching exchange rates")

	table, err := c.provider.FetchRates(ctx)
	if err != nil {
		metrics.RecordRateFetch(metrics.StatusFailed, timer.Duration())
		c.setLastError(err)
		logger.Error().Err(err).Msg("Failed to fetch exchange rates")
		return nil, err
	}

	c.table.Store(table)
	c.setLastError(nil)
	metrics.RecordRateFetch(metrics.StatusSuccess, timer.Duration())
	metrics.SetRateCacheReady(true)

	logger.Info().
		Int("currencies", table.Len()).
		Str("date", table.Date()).
		Msg("Exchange rates loaded")

	return table, nil
}

// Ready сообщает, загружена ли таблица курсов
func (c *RateCache) Ready() bool {
	return c.table.Load() != nil
}

// LastError - ошибка последней неудачной загрузки, nil после успешной
func (c *RateCache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *RateCache) setLastError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
