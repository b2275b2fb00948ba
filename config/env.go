package config

import (
	"os"
	"pizzeria_server/structs"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func getEnvAsString(key string, defaultVal string) string {
	if value, exists := lookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if valueStr, exists := lookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultVal
}

// getEnvAsTimeDuration accepts Go duration strings ("30m") or a plain number of seconds.
func getEnvAsTimeDuration(key string, defaultVal time.Duration) time.Duration {
	if valueStr, exists := lookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
		if value, err := strconv.Atoi(valueStr); err == nil {
			return time.Duration(value) * time.Second
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if valueStr, exists := lookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	if valueStr, exists := lookupEnv(key); exists {
		// Split by comma and trim whitespace
		parts := strings.Split(valueStr, ",")
		result := make([]string, 0, len(parts))
		for _, v := range parts {
			trimmed := strings.TrimSpace(v)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultVal
}

func getEnvAsDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if valueStr, exists := lookupEnv(key); exists {
		if value, err := decimal.NewFromString(strings.TrimSpace(valueStr)); err == nil && !value.IsNegative() {
			return value
		}
	}
	return defaultVal
}

func getEnvAsPolicy(key string, defaultVal structs.UnavailablePolicy) structs.UnavailablePolicy {
	if valueStr, exists := lookupEnv(key); exists {
		switch policy := structs.UnavailablePolicy(strings.ToLower(strings.TrimSpace(valueStr))); policy {
		case structs.UnavailableSkip, structs.UnavailableReject:
			return policy
		}
	}
	return defaultVal
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
