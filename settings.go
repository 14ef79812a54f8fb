package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Settings holds process configuration read from the environment. Command
// line flags take precedence over these values.
type Settings struct {
	Host        string        `env:"PLANCHIS_HOST" envDefault:"localhost"`
	Port        int           `env:"PLANCHIS_PORT" envDefault:"8080"`
	ConfigDir   string        `env:"CONFIG_DIR" envDefault:"configs"`
	SessionsDir string        `env:"SESSIONS_DIR" envDefault:"sessions"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Debug       bool          `env:"PLANCHIS_DEBUG"`
	LogPretty   bool          `env:"PLANCHIS_LOG_PRETTY"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// loadSettings reads .env files when present and parses the environment.
func loadSettings(dotenvFiles ...string) (Settings, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Older deployments used the underscored name
	if s.NgrokAuthToken == "" {
		s.NgrokAuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	return s, nil
}

// setupLogging configures the global zerolog logger.
func setupLogging(w io.Writer, debug, pretty bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
