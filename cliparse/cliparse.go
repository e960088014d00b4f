package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminKeySalt  string
	ShareCodeSalt string
	LogLevel      string
}

// LoadDotEnv loads variables from .env files into the environment. Missing
// files are ignored; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("weekpick-server", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.ShareCodeSalt, "code-salt", "", "Share code salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:weekpick.db"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.ShareCodeSalt == "" {
		cfg.ShareCodeSalt = os.Getenv("SHARE_CODE_SALT")
	}
	if cfg.ShareCodeSalt == "" {
		return Config{}, errors.New("SHARE_CODE_SALT required")
	}

	return cfg, nil
}

// ClientConfig configures the weekpick command-line client.
type ClientConfig struct {
	ServerURL      string
	TripCode       string
	Name           string
	Year           int
	WindowStartDay int
	WindowDays     int
	PollBase       time.Duration
	PollMax        time.Duration
	AutosaveDelay  time.Duration
	Timeout        time.Duration
	StateFile      string
	LogLevel       string
}

// ParseClientFlags parses client flags and returns the remaining arguments
// (the subcommand and its operands).
func ParseClientFlags(args []string) (ClientConfig, []string, error) {
	cfg := ClientConfig{
		Year:           time.Now().Year(),
		WindowStartDay: int(time.Saturday),
		WindowDays:     7,
		PollBase:       8 * time.Second,
		PollMax:        60 * time.Second,
		AutosaveDelay:  1200 * time.Millisecond,
		Timeout:        10 * time.Second,
	}

	fs := flag.NewFlagSet("weekpick", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "server", "", "Server base URL")
	fs.StringVar(&cfg.TripCode, "code", "", "Trip share code")
	fs.StringVar(&cfg.Name, "name", "", "Participant name")
	fs.IntVar(&cfg.Year, "year", cfg.Year, "Trip year")
	fs.IntVar(&cfg.WindowStartDay, "start-day", cfg.WindowStartDay, "Window start weekday (0=Sunday)")
	fs.IntVar(&cfg.WindowDays, "days", cfg.WindowDays, "Window length in days (6-9)")
	fs.DurationVar(&cfg.PollBase, "poll", cfg.PollBase, "Base poll interval")
	fs.DurationVar(&cfg.PollMax, "poll-max", cfg.PollMax, "Maximum poll interval after failures")
	fs.DurationVar(&cfg.AutosaveDelay, "autosave", cfg.AutosaveDelay, "Auto-save debounce delay")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	fs.StringVar(&cfg.StateFile, "state", "", "Local state database file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, nil, err
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = os.Getenv("WEEKPICK_SERVER")
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:3318"
	}
	if cfg.TripCode == "" {
		cfg.TripCode = os.Getenv("WEEKPICK_CODE")
	}
	if cfg.Name == "" {
		cfg.Name = os.Getenv("WEEKPICK_NAME")
	}
	if cfg.StateFile == "" {
		cfg.StateFile = os.Getenv("WEEKPICK_STATE")
	}
	if cfg.StateFile == "" {
		cfg.StateFile = "weekpick-state.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
	}

	if cfg.PollBase <= 0 || cfg.PollMax < cfg.PollBase {
		return ClientConfig{}, nil, errors.New("poll interval must be positive and not exceed -poll-max")
	}
	if cfg.Timeout <= 0 {
		return ClientConfig{}, nil, errors.New("timeout must be positive")
	}

	return cfg, fs.Args(), nil
}
