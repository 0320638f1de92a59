package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestKafkaProduceTimer_Success(t *testing.T) {
	// Arrange
	timer := NewKafkaProduceTimer("kafka-success-test", "package_events")

	// Act
	timer.Success()

	// Assert
	produced := KafkaMessagesProduced.WithLabelValues("kafka-success-test", "package_events")
	assert.Equal(t, float64(1), testutil.ToFloat64(produced))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(KafkaProduceDuration, "kafka_produce_duration_seconds"), 1)
}

func TestKafkaProduceTimer_Error(t *testing.T) {
	// Arrange
	timer := NewKafkaProduceTimer("kafka-error-test", "package_events")

	// Act
	timer.Error()

	// Assert
	failed := KafkaErrors.WithLabelValues("kafka-error-test", "package_events", "produce")
	assert.Equal(t, float64(1), testutil.ToFloat64(failed))
	produced := KafkaMessagesProduced.WithLabelValues("kafka-error-test", "package_events")
	assert.Equal(t, float64(0), testutil.ToFloat64(produced))
}

func TestSetRateCacheReady(t *testing.T) {
	SetRateCacheReady(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(CurrencyRateCacheReady))

	SetRateCacheReady(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(CurrencyRateCacheReady))
}
