package util

import (
	"github.com/cespare/xxhash"
)

// HashKey produces a `xxhash` hash from a given string key
// NOTE: https://github.com/cespare/xxhash for more details
func HashKey(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Stripe maps a key onto one of n stripes
func Stripe(key string, n int) int {
	if n <= 1 {
		return 0
	}

	return int(HashKey(key) % uint64(n))
}
