package config

import (
	"os"
	"time"

	"devanshi-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Devanshi server
type Config struct {
	loaded bool

	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`

	// Store selects the room store backend: "memory" or "postgres"
	Store string `yaml:"store" envconfig:"store"`

	// TrickResolveDelayMs is how long a completed trick stays on the table
	// before it is swept, so clients can render the fourth card
	TrickResolveDelayMs int `yaml:"trickResolveDelayMs" envconfig:"trick_resolve_delay_ms"`

	// GameRestartDelayMs is the pause between game-over and the fresh deal
	GameRestartDelayMs int `yaml:"gameRestartDelayMs" envconfig:"game_restart_delay_ms"`

	// RoomTTLMinutes is how long an idle room survives before eviction
	RoomTTLMinutes int `yaml:"roomTtlMinutes" envconfig:"room_ttl_minutes"`

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration.
// A missing config file is fine; environment variables and defaults apply.
func Load() error {
	config = Config{}

	configFile := util.Getenv("DEVANSHI_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("devanshi", &config); err != nil {
		return err
	}

	config.applyDefaults()
	config.loaded = true
	return nil
}

func (c *Config) applyDefaults() {
	if c.PGDSN == "" {
		c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	}

	if c.MigrationsPath == "" {
		c.MigrationsPath = "./sql"
	}

	if c.Store == "" {
		c.Store = "memory"
	}

	if c.TrickResolveDelayMs == 0 {
		c.TrickResolveDelayMs = 3000
	}

	if c.GameRestartDelayMs == 0 {
		c.GameRestartDelayMs = 3000
	}

	if c.RoomTTLMinutes == 0 {
		c.RoomTTLMinutes = 24 * 60
	}
}

// TrickResolveDelay returns the trick sweep delay as a duration
func (c Config) TrickResolveDelay() time.Duration {
	return time.Duration(c.TrickResolveDelayMs) * time.Millisecond
}

// GameRestartDelay returns the post-game-over restart delay as a duration
func (c Config) GameRestartDelay() time.Duration {
	return time.Duration(c.GameRestartDelayMs) * time.Millisecond
}

// RoomTTL returns the idle room lifetime as a duration
func (c Config) RoomTTL() time.Duration {
	return time.Duration(c.RoomTTLMinutes) * time.Minute
}
