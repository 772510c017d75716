package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type server struct {
	Host      string `env:"HOST" envDefault:"0.0.0.0"`
	Port      string `env:"PORT" envDefault:"8000"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
}

type storageConfig struct {
	Backend        string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"randomizer.db"`
	PostgresDSN    string `env:"POSTGRES_DSN"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"randomizer:"`
}

type backup struct {
	Schedule string `env:"BACKUP_SCHEDULE"`
	Dir      string `env:"BACKUP_DIR" envDefault:"backups"`
}

type randomizer struct {
	TeamSize       int    `env:"TEAM_SIZE" envDefault:"4"`
	MaxTeamPlayers int    `env:"MAX_TEAM_PLAYERS" envDefault:"4"`
	PlayersAPIURL  string `env:"PLAYERS_API_URL" envDefault:"http://localhost:8000"`
}

type discord struct {
	Token     string `env:"DISCORD_TOKEN"`
	ChannelID string `env:"DISCORD_CHANNEL_ID"`
}

type config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Server     server
	Storage    storageConfig
	Backup     backup
	Randomizer randomizer
	Discord    discord
}

var (
	mu sync.RWMutex
	c  *config
)

// LoadConfig reads the given .env files (".env" when none are given) into the
// process environment and parses the configuration from it. A missing default
// .env file is not an error.
func LoadConfig(filenames ...string) error {
	if len(filenames) == 0 {
		if err := godotenv.Load(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			slog.Warn("no .env file found, using environment only")
		}
	} else if err := godotenv.Load(filenames...); err != nil {
		return fmt.Errorf("load %s: %w", strings.Join(filenames, ", "), err)
	}

	var nc config
	if err := env.Parse(&nc); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := nc.validate(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	c = &nc
	slog.Debug(fmt.Sprintf("'Config' initialized %+v", nc.redacted()))
	return nil
}

func (cfg config) validate() error {
	if cfg.Randomizer.TeamSize <= 0 {
		return fmt.Errorf("TEAM_SIZE must be positive, got %d", cfg.Randomizer.TeamSize)
	}
	if cfg.Randomizer.MaxTeamPlayers <= 0 {
		return fmt.Errorf("MAX_TEAM_PLAYERS must be positive, got %d", cfg.Randomizer.MaxTeamPlayers)
	}
	return nil
}

func (cfg config) redacted() config {
	if cfg.Discord.Token != "" {
		cfg.Discord.Token = "***"
	}
	if cfg.Storage.PostgresDSN != "" {
		cfg.Storage.PostgresDSN = "***"
	}
	return cfg
}

// Config returns the loaded configuration, loading it from the environment on
// first use.
func Config() *config {
	mu.RLock()
	loaded := c
	mu.RUnlock()
	if loaded != nil {
		return loaded
	}
	if err := LoadConfig(); err != nil {
		slog.Error("failed to load config : " + err.Error())
		panic(err)
	}
	mu.RLock()
	defer mu.RUnlock()
	return c
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (cfg *config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
