package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	AllowedOrigins    string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	UndoGroupWindow   time.Duration `envconfig:"UNDO_GROUP_WINDOW" default:"1s"`
	HoverDebounce     time.Duration `envconfig:"HOVER_DEBOUNCE" default:"80ms"`
	PointSizeFactor   float64       `envconfig:"POINT_SIZE_FACTOR" default:"0.01"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	PrimitiveDefaults string        `envconfig:"PRIMITIVE_DEFAULTS"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// OriginHosts returns Origins without their schemes, the form websocket
// origin patterns take.
func (c *Config) OriginHosts() []string {
	var hosts []string
	for _, o := range c.Origins() {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		hosts = append(hosts, o)
	}
	return hosts
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
