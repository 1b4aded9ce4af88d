package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teacurran/village-calendar/internal/shipping"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8003, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 168, cfg.CartTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_CustomRedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.prod:6380")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "redis.prod:6380", cfg.RedisAddr)
}

func TestLoad_CustomCartTTL(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "24")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 24, cfg.CartTTL)
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
}

func TestShippingRates_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	rates, err := cfg.ShippingRates()

	require.NoError(t, err)
	assert.Equal(t, "5.99", rates[shipping.TierStandard].StringFixed(2))
	assert.Equal(t, "15.99", rates[shipping.TierPriority].StringFixed(2))
	assert.Equal(t, "29.99", rates[shipping.TierExpress].StringFixed(2))
	assert.Equal(t, "0.00", rates[shipping.TierInternational].StringFixed(2))
}

func TestShippingRates_Override(t *testing.T) {
	t.Setenv("SHIPPING_RATE_STANDARD", "7.49")

	cfg, err := Load()
	require.NoError(t, err)

	rates, err := cfg.ShippingRates()

	require.NoError(t, err)
	assert.Equal(t, "7.49", rates[shipping.TierStandard].StringFixed(2))
}

func TestLoad_MalformedShippingRate(t *testing.T) {
	t.Setenv("SHIPPING_RATE_PRIORITY", "cheap")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shipping rate for tier priority")
}

func TestLoad_NegativeShippingRate(t *testing.T) {
	t.Setenv("SHIPPING_RATE_EXPRESS", "-1.00")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}
