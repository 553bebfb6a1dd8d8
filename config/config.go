package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Load reads the optional .env file. Missing files are fine; everything has
// an environment default.
func Load() {
	_ = godotenv.Load()
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func HTTPAddr() string {
	return env("HTTP_ADDR", ":8080")
}

func DBPath() string {
	return env("DB_PATH", "data/vitatrack.db")
}

// FallbackKVPath is the flat key/value file used for settings when the
// primary store cannot be opened.
func FallbackKVPath() string {
	return env("FALLBACK_KV_PATH", "data/settings_fallback.json")
}

func LogFile() string {
	return env("LOG_FILE", "./logs/vitatrack.log")
}

// RedisAddr is empty when the optional response cache is disabled.
func RedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}
