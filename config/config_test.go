package config

import (
	"pizzeria_server/structs"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.True(t, cfg.Order.BasePrice.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, 30*time.Minute, cfg.Order.DeliveryCooldown)
	assert.Equal(t, 5*time.Minute, cfg.Order.CancelWindow)
	assert.Equal(t, structs.UnavailableSkip, cfg.Order.OnUnavailableItem)
	assert.Equal(t, "drink", cfg.Order.DrinkCategory)
	assert.Equal(t, 10, cfg.Order.LoyaltyEvery)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PIZZA_BASE_PRICE", "6.50")
	t.Setenv("DELIVERY_COOLDOWN", "45m")
	t.Setenv("ORDER_CANCEL_WINDOW", "120")
	t.Setenv("ORDER_ON_UNAVAILABLE_ITEM", "REJECT")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg := Load()

	assert.True(t, cfg.Order.BasePrice.Equal(decimal.RequireFromString("6.50")))
	assert.Equal(t, 45*time.Minute, cfg.Order.DeliveryCooldown)
	assert.Equal(t, 2*time.Minute, cfg.Order.CancelWindow)
	assert.Equal(t, structs.UnavailableReject, cfg.Order.OnUnavailableItem)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg *structs.Config)
	}{
		{
			name:  "negative_base_price",
			key:   "PIZZA_BASE_PRICE",
			value: "-1",
			check: func(t *testing.T, cfg *structs.Config) {
				assert.True(t, cfg.Order.BasePrice.Equal(decimal.RequireFromString("5")))
			},
		},
		{
			name:  "unknown_policy",
			key:   "ORDER_ON_UNAVAILABLE_ITEM",
			value: "ignore",
			check: func(t *testing.T, cfg *structs.Config) {
				assert.Equal(t, structs.UnavailableSkip, cfg.Order.OnUnavailableItem)
			},
		},
		{
			name:  "garbage_duration",
			key:   "DELIVERY_COOLDOWN",
			value: "half an hour",
			check: func(t *testing.T, cfg *structs.Config) {
				assert.Equal(t, 30*time.Minute, cfg.Order.DeliveryCooldown)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)
			testCase.check(t, Load())
		})
	}
}
