package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	HostawayBase   string
	HostawayKey    string
	Workers        int
	ReviewLimit    int
	CacheTTL       time.Duration
	ApprovalTTL    time.Duration
	ApprovalSetKey string
	ListingIDs     []string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/flex?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		HostawayBase:   env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayKey:    env("HOSTAWAY_API_KEY", ""),
		Workers:        atoi("INGEST_WORKERS", 8),
		ReviewLimit:    atoi("INGEST_REVIEW_LIMIT", 100),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		ApprovalTTL:    time.Duration(atoi("APPROVAL_TTL_DAYS", 30)) * 24 * time.Hour,
		ApprovalSetKey: env("APPROVAL_SET_KEY", "approved_ids"),
		ListingIDs:     splitCSV(env("INGEST_LISTING_IDS", "")),
	}
	if c.HostawayKey == "" {
		log.Warn().Msg("HOSTAWAY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
