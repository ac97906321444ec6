// Package config loads server and bot settings from defaults, an optional
// config file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"provincewar/internal/client"
	"provincewar/internal/game"
	"provincewar/pkg/maps"
)

// EnvPrefix prefixes every environment override, e.g. PROVINCEWAR_SERVER_ADDR.
const EnvPrefix = "PROVINCEWAR"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendNone   = "none"
)

// Config is the full configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Game    GameConfig    `mapstructure:"game"`
	Bot     client.Config `mapstructure:"bot"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DBPath  string `mapstructure:"db_path"`
	SaveDir string `mapstructure:"save_dir"`
}

// LogConfig controls the global logger. An empty File logs to stderr only.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

type GameConfig struct {
	Map   string     `mapstructure:"map"`
	Seed  uint64     `mapstructure:"seed"` // 0 seeds from the clock
	Rules game.Rules `mapstructure:"rules"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":30000"},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  "data/provincewar.db",
			SaveDir: "saves",
		},
		Log: LogConfig{
			Level:      "info",
			Pretty:     true,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Game: GameConfig{
			Map:   maps.DefaultMapID,
			Rules: game.DefaultRules(),
		},
		Bot: client.DefaultConfig(),
	}
}

// Load reads the configuration. An empty path searches for provincewar.yaml
// (or .yml/.json/.toml) in the working directory and ./configs; a missing
// file is not an error in that case.
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Watch loads the configuration and calls onChange with every valid reload of
// the config file. Invalid reloads are logged and skipped. Watch returns the
// initial configuration; without a config file there is nothing to watch.
func Watch(path string, onChange func(*Config)) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if v.ConfigFileUsed() == "" {
		return cfg, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		log.Info().Str("file", e.Name).Msg("Config reloaded")
		onChange(next)
	})
	v.WatchConfig()
	return cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("provincewar")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// PORT and DB_PATH are set by hosting platforms
	if port := os.Getenv("PORT"); port != "" {
		v.Set("server.addr", ":"+port)
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		v.Set("storage.db_path", dbPath)
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("storage.db_path is required for the sqlite backend")
		}
	case BackendFile:
		if c.Storage.SaveDir == "" {
			return errors.New("storage.save_dir is required for the file backend")
		}
	case BackendNone:
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Game.Map == "" {
		return errors.New("game.map is required")
	}
	if err := c.Game.Rules.Validate(); err != nil {
		return fmt.Errorf("game.rules: %w", err)
	}
	return nil
}

// setDefaults registers every key with viper so environment variables can
// override keys that no config file mentions.
func setDefaults(v *viper.Viper, d Config) error {
	sections := map[string]any{
		"server":     d.Server,
		"storage":    d.Storage,
		"log":        d.Log,
		"bot":        d.Bot,
		"game.rules": d.Game.Rules,
	}
	for prefix, section := range sections {
		var values map[string]any
		if err := mapstructure.Decode(section, &values); err != nil {
			return fmt.Errorf("config defaults for %s: %w", prefix, err)
		}
		for key, value := range values {
			v.SetDefault(prefix+"."+key, value)
		}
	}
	v.SetDefault("game.map", d.Game.Map)
	v.SetDefault("game.seed", d.Game.Seed)
	return nil
}
