package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerURL    = "http://localhost:3001"
	DefaultPort         = "3001"
	DefaultDataFile     = "public/data.csv"
	DefaultDebounce     = time.Second
	DefaultStatusWindow = 3 * time.Second
)

// Config holds the process settings shared by every binary
type Config struct {
	ServerURL    string
	Port         string
	DataFile     string
	AssetDir     string
	StorePath    string // empty selects the sqlite default path
	Debounce     time.Duration
	StatusWindow time.Duration
}

// LoadEnvFile preloads variables from a .env file. A missing file is not an
// error; variables already set in the environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment, falling back to the defaults.
func Load() (Config, error) {
	cfg := Config{
		ServerURL: envOr("LASERLAB_SERVER_URL", DefaultServerURL),
		Port:      envOr("PORT", DefaultPort),
		DataFile:  envOr("LASERLAB_DATA_FILE", DefaultDataFile),
		AssetDir:  os.Getenv("LASERLAB_ASSET_DIR"),
		StorePath: os.Getenv("LASERLAB_STORE"),
	}

	var err error
	if cfg.Debounce, err = durationOr("LASERLAB_DEBOUNCE", DefaultDebounce); err != nil {
		return Config{}, err
	}
	if cfg.StatusWindow, err = durationOr("LASERLAB_STATUS_WINDOW", DefaultStatusWindow); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the row server
func (c Config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	if env := os.Getenv(key); env != "" {
		return env
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	env := os.Getenv(key)
	if env == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(env)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
