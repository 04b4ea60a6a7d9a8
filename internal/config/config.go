package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"skyrelay/internal/relay"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	NatsURL     string `yaml:"nats_url"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Game struct {
		DefaultGameTime   int `yaml:"default_game_time"` // seconds
		MinGameTime       int `yaml:"min_game_time"`
		MaxGameTime       int `yaml:"max_game_time"`
		DefaultMaxPlayers int `yaml:"default_max_players"`
		MinPlayers        int `yaml:"min_players"`
		MaxPlayers        int `yaml:"max_players"`
		MaxHitPoints      int `yaml:"max_hit_points"`
	} `yaml:"game"`

	RoomIdleTTL   time.Duration `yaml:"room_idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

func defaults() Config {
	var cfg Config
	cfg.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	rules := relay.DefaultRules()
	cfg.Game.DefaultGameTime = rules.DefaultGameTime
	cfg.Game.MinGameTime = rules.MinGameTime
	cfg.Game.MaxGameTime = rules.MaxGameTime
	cfg.Game.DefaultMaxPlayers = rules.DefaultMaxPlayers
	cfg.Game.MinPlayers = rules.MinPlayers
	cfg.Game.MaxPlayers = rules.MaxPlayers
	cfg.Game.MaxHitPoints = rules.MaxHitPoints
	cfg.RoomIdleTTL = rules.IdleTTL
	cfg.SweepInterval = time.Minute
	return cfg
}

// Load reads defaults, then the YAML file named by CONFIG_FILE if set, then
// environment overrides. Unparseable environment values keep the earlier
// value.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.NatsURL = getEnv("NATS_URL", cfg.NatsURL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Game.DefaultGameTime = getEnvInt("DEFAULT_GAME_TIME", cfg.Game.DefaultGameTime)
	cfg.Game.MinGameTime = getEnvInt("MIN_GAME_TIME", cfg.Game.MinGameTime)
	cfg.Game.MaxGameTime = getEnvInt("MAX_GAME_TIME", cfg.Game.MaxGameTime)
	cfg.Game.DefaultMaxPlayers = getEnvInt("DEFAULT_MAX_PLAYERS", cfg.Game.DefaultMaxPlayers)
	cfg.Game.MinPlayers = getEnvInt("MIN_PLAYERS", cfg.Game.MinPlayers)
	cfg.Game.MaxPlayers = getEnvInt("MAX_PLAYERS", cfg.Game.MaxPlayers)
	cfg.Game.MaxHitPoints = getEnvInt("MAX_HIT_POINTS", cfg.Game.MaxHitPoints)
	cfg.RoomIdleTTL = getEnvDuration("ROOM_IDLE_TTL", cfg.RoomIdleTTL)
	cfg.SweepInterval = getEnvDuration("SWEEP_INTERVAL", cfg.SweepInterval)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	g := c.Game
	if g.MinGameTime <= 0 || g.MinGameTime > g.MaxGameTime {
		return fmt.Errorf("game time bounds %d..%d are invalid", g.MinGameTime, g.MaxGameTime)
	}
	if g.MinPlayers <= 0 || g.MinPlayers > g.MaxPlayers {
		return fmt.Errorf("player bounds %d..%d are invalid", g.MinPlayers, g.MaxPlayers)
	}
	if g.DefaultGameTime < g.MinGameTime || g.DefaultGameTime > g.MaxGameTime {
		return fmt.Errorf("default game time %d is outside %d..%d", g.DefaultGameTime, g.MinGameTime, g.MaxGameTime)
	}
	if g.DefaultMaxPlayers < g.MinPlayers || g.DefaultMaxPlayers > g.MaxPlayers {
		return fmt.Errorf("default max players %d is outside %d..%d", g.DefaultMaxPlayers, g.MinPlayers, g.MaxPlayers)
	}
	if g.MaxHitPoints <= 0 {
		return fmt.Errorf("max hit points %d must be positive", g.MaxHitPoints)
	}
	return nil
}

// Rules is the room settings policy handed to the relay.
func (c Config) Rules() relay.Rules {
	return relay.Rules{
		DefaultGameTime:   c.Game.DefaultGameTime,
		MinGameTime:       c.Game.MinGameTime,
		MaxGameTime:       c.Game.MaxGameTime,
		DefaultMaxPlayers: c.Game.DefaultMaxPlayers,
		MinPlayers:        c.Game.MinPlayers,
		MaxPlayers:        c.Game.MaxPlayers,
		MaxHitPoints:      c.Game.MaxHitPoints,
		IdleTTL:           c.RoomIdleTTL,
	}
}

// NewLogger builds the process logger from the log section.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.Log.Level)}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
