package lib

import (
	"math/rand/v2"
)

// GenerateOrderNumber generates an order number in the format PZ-XXXXXX.
// The orders table keeps it unique; a clash fails the insert.
func GenerateOrderNumber() string {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const length = 6

	randomPart := make([]byte, length)
	for i := range randomPart {
		randomPart[i] = chars[rand.IntN(len(chars))]
	}

	return "PZ-" + string(randomPart)
}
