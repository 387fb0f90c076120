package platform

import (
	"os"
	"strconv"
	"strings"
)

// Env helpers with defaults.

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func GetEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return strings.ToLower(val) == "true" || val == "1"
	}
	return defaultVal
}

// SourceURLEnv is the environment variable carrying the feed URL override for
// a sync source, e.g. TARIFSCAN_SOURCE_PROXIMUS_URL.
func SourceURLEnv(adapterID string) string {
	key := "TARIFSCAN_SOURCE_" + strings.ToUpper(strings.ReplaceAll(adapterID, "-", "_")) + "_URL"
	return os.Getenv(key)
}
