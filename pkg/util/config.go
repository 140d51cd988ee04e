package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/lintang-b-s/routeopt/pkg"
	"github.com/spf13/viper"
)

// upper bound of the backoff heimdall sleeps between two attempts
const retryBackoffAllowance = 500 * time.Millisecond

// ReadConfig loads ./data/config.* when it exists. Environment variables always win over the file.
func ReadConfig() error {
	SetDefaults()
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "120s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("OVERPASS_URL", pkg.OVERPASS_INTERPRETER_URL)
	viper.SetDefault("OVERPASS_BBOX_PADDING", pkg.DEFAULT_BBOX_PADDING_DEGREE)
	viper.SetDefault("OVERPASS_TIMEOUT", 90*time.Second)
	viper.SetDefault("NOMINATIM_URL", pkg.NOMINATIM_URL)
	viper.SetDefault("NOMINATIM_USER_AGENT", pkg.NOMINATIM_USER_AGENT)
	viper.SetDefault("NOMINATIM_COUNTRY_CODES", pkg.NOMINATIM_COUNTRY_CODES)
	viper.SetDefault("NOMINATIM_TIMEOUT", 15*time.Second)
	viper.SetDefault("HTTP_CLIENT_RETRY_COUNT", 2)

	viper.SetDefault("MAP_CACHE_DIR", "")
	viper.SetDefault("MAP_CACHE_TTL", time.Hour)
	viper.SetDefault("GEOCODE_CACHE_SIZE", 4096)
	viper.SetDefault("OSM_FILE", "")

	viper.SetDefault("RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("BATCH_WORKERS", 4)
	viper.SetDefault("BATCH_MAX_QUERIES", 32)
}

// RouteQueryTimeout is the time one route request may take: API_TIMEOUT, raised to the worst case of
// an overpass fetch plus two reverse geocodes when every attempt of the retrying clients times out.
func RouteQueryTimeout() time.Duration {
	attempts := time.Duration(viper.GetInt("HTTP_CLIENT_RETRY_COUNT") + 1)
	upstream := attempts*(viper.GetDuration("OVERPASS_TIMEOUT")+retryBackoffAllowance) +
		2*attempts*(viper.GetDuration("NOMINATIM_TIMEOUT")+retryBackoffAllowance)

	timeout := viper.GetDuration("API_TIMEOUT")
	if upstream > timeout {
		timeout = upstream
	}
	return timeout
}
