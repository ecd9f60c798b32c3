// Package config assembles the game host's settings from defaults, an optional
// .env file, environment variables, and command-line flags, in increasing order
// of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings for a game host.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string
	// GamesDir is the directory whose subdirectories are served as games.
	GamesDir string
	// FaviconPath is the file served at /favicon.ico, if it exists.
	FaviconPath string
	// EnableAPI turns on the JSON and websocket catalog under /api/.
	EnableAPI bool
	// Quiet disables the log line written for each request.
	Quiet bool
	// ShutdownTimeout bounds how long in-flight requests may run after the
	// server is told to stop.
	ShutdownTimeout time.Duration
}

// Default returns the settings used when nothing else is specified.
func Default() Config {
	return Config{
		Addr:            ":3000",
		GamesDir:        "games",
		FaviconPath:     "favicon.ico",
		ShutdownTimeout: 10 * time.Second,
	}
}

// DotEnvFile is read by Load when it exists.
var DotEnvFile = ".env"

// Names of the environment variables read by Load.
const (
	EnvAddr            = "GAMEHOST_ADDR"
	EnvGamesDir        = "GAMEHOST_GAMES_DIR"
	EnvFavicon         = "GAMEHOST_FAVICON"
	EnvAPI             = "GAMEHOST_API"
	EnvQuiet           = "GAMEHOST_QUIET"
	EnvShutdownTimeout = "GAMEHOST_SHUTDOWN_TIMEOUT"
)

// Load builds a Config for a program invoked with args (excluding the program
// name). Environment variables are looked up with getenv, falling back to the
// values in DotEnvFile.
func Load(args []string, getenv func(string) string) (Config, error) {
	dotenv, err := godotenv.Read(DotEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading %s: %w", DotEnvFile, err)
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	fset := flag.NewFlagSet("gamehost", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	fset.StringVar(&cfg.GamesDir, "games", cfg.GamesDir, "directory containing one subdirectory per game")
	fset.StringVar(&cfg.FaviconPath, "favicon", cfg.FaviconPath, "file to serve at /favicon.ico")
	fset.BoolVar(&cfg.EnableAPI, "api", cfg.EnableAPI, "serve the game catalog under /api/")
	fset.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "disable request logging")
	fset.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "grace period for in-flight requests on shutdown")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if fset.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %q", fset.Args())
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv(lookup func(string) string) error {
	if v := lookup(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := lookup(EnvGamesDir); v != "" {
		cfg.GamesDir = v
	}
	if v := lookup(EnvFavicon); v != "" {
		cfg.FaviconPath = v
	}
	if v := lookup(EnvAPI); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAPI, err)
		}
		cfg.EnableAPI = b
	}
	if v := lookup(EnvQuiet); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvQuiet, err)
		}
		cfg.Quiet = b
	}
	if v := lookup(EnvShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvShutdownTimeout, err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func (cfg *Config) validate() error {
	if cfg.Addr == "" {
		return errors.New("listen address must not be empty")
	}
	if cfg.GamesDir == "" {
		return errors.New("games directory must not be empty")
	}
	if cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative, got %v", cfg.ShutdownTimeout)
	}

	var err error
	if cfg.GamesDir, err = filepath.Abs(cfg.GamesDir); err != nil {
		return err
	}
	if cfg.FaviconPath != "" {
		if cfg.FaviconPath, err = filepath.Abs(cfg.FaviconPath); err != nil {
			return err
		}
	}
	return nil
}
