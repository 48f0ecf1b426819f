package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	ConsoleAddr string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	APIBase     string
	APIRPS      int
	SeedFile    string
	SeedWorkers int
	CacheTTL    time.Duration
}

func Load() Config {
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		ConsoleAddr: env("CONSOLE_ADDR", ":8081"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		APIBase:     env("HOTEL_API_BASE_URL", "http://localhost:8080/api"),
		APIRPS:      atoi("HOTEL_API_RPS", 10),
		SeedFile:    env("SEED_FILE", "seed/hotels.json"),
		SeedWorkers: atoi("SEED_WORKERS", 4),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.SeedWorkers < 1 {
		log.Warn().Int("seed_workers", c.SeedWorkers).Msg("SEED_WORKERS below 1, using 1")
		c.SeedWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
	}
	return def
}
