package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/timex"
)

// parseEnv overlays environment variables. Names follow the deployment
// conventions of the service (PORT, DATABASE_URL, JWT_SECRET, JWT_EXPIRES_IN).
// Malformed numeric or duration values panic.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		config.LogFormat = v
	}
	if v, ok := os.LookupEnv("JWT_EXPIRES_IN"); ok && v != "" {
		config.TokenValidityDuration = mustDuration("JWT_EXPIRES_IN", v)
	}
	if v, ok := os.LookupEnv("DB_CONN_HOLD_WARNING"); ok && v != "" {
		config.ConnHoldWarning = mustDuration("DB_CONN_HOLD_WARNING", v)
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		config.BcryptCost = mustInt("BCRYPT_COST", v)
	}
	if v, ok := os.LookupEnv("DB_MAX_OPEN_CONNS"); ok && v != "" {
		config.DBMaxOpenConns = mustInt("DB_MAX_OPEN_CONNS", v)
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("invalid %s: %v", name, err))
	}
	return d
}

func mustInt(name, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("invalid %s: %v", name, err))
	}
	return n
}
