package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/sensor-buffer/pkg/config/env"
	"github.com/DjordjeVuckovic/sensor-buffer/pkg/utils"
)

type Config struct {
	Enabled     bool
	Port        string
	UseHttp2    bool
	CorsOrigins []string
}

// LoadConfig reads the status server settings from the environment.
// The .env files are expected to be loaded by the caller.
func LoadConfig() (*Config, error) {
	enabled, err := env.Bool("HTTP_ENABLED", true)
	if err != nil {
		return nil, err
	}

	useHttp2 := os.Getenv("USE_HTTP2") == "true"

	port := env.String("PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	var origins []string
	if corsOriginsEnv := os.Getenv("CORS_ORIGINS"); corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = utils.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Enabled:     enabled,
		Port:        port,
		UseHttp2:    useHttp2,
		CorsOrigins: origins,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
