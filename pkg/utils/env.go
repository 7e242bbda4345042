package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv retrieves an environment variable;
// return default variable when missing.
func GetEnv(key, defKey string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defKey
}

func GetIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

// GetBoolEnv only treats "true" (any case) as enabled.
func GetBoolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true")
}

// ParseExpiry converts an expiry string such as "30s", "10m", "1h" or "7d"
// into a duration.
func ParseExpiry(expiry string) (time.Duration, error) {
	expiry = strings.TrimSpace(expiry)
	if len(expiry) < 2 {
		return 0, fmt.Errorf("invalid expiry %q", expiry)
	}

	value, err := strconv.Atoi(expiry[:len(expiry)-1])
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid expiry %q", expiry)
	}

	var unit time.Duration
	switch expiry[len(expiry)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid expiry unit in %q", expiry)
	}

	return time.Duration(value) * unit, nil
}

// GetExpiryEnv reads an expiry string env var, falling back to def when the
// variable is missing or malformed.
func GetExpiryEnv(key, def string) time.Duration {
	if d, err := ParseExpiry(GetEnv(key, def)); err == nil {
		return d
	}
	d, _ := ParseExpiry(def)
	return d
}
