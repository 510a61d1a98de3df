// Package config loads the server configuration from an optional YAML file
// and the environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the variable holding the config file path when no
// -config flag is given.
const EnvConfigPath = "COMPOSITOR_CONFIG"

type Config struct {
	Server   Server   `yaml:"server"`
	Fetch    Fetch    `yaml:"fetch"`
	Store    Store    `yaml:"store"`
	Delivery Delivery `yaml:"delivery"`
	Print    Print    `yaml:"print"`
	Log      Log      `yaml:"log"`
}

type Server struct {
	Port string `yaml:"port"`
	// PublicBaseURL prefixes returned image links. Empty means the links are
	// built from the incoming request's host.
	PublicBaseURL   string        `yaml:"public_base_url"`
	BodyLimitMB     int           `yaml:"body_limit_mb"`
	GinMode         string        `yaml:"gin_mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Fetch struct {
	Timeout              time.Duration `yaml:"timeout"`
	MaxRedirects         int           `yaml:"max_redirects"`
	MaxBytes             int64         `yaml:"max_bytes"`
	UserAgent            string        `yaml:"user_agent"`
	BlockPrivateNetworks bool          `yaml:"block_private_networks"`
	QRSize               int           `yaml:"qr_size"`
}

type Store struct {
	Backend       string        `yaml:"backend"`
	Dir           string        `yaml:"dir"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type Delivery struct {
	Mode           string        `yaml:"mode"`
	WebhookTimeout time.Duration `yaml:"webhook_timeout"`
}

type Print struct {
	DefaultSafePercent float64 `yaml:"default_safe_percent"`
	DefaultDPI         int     `yaml:"default_dpi"`
	PresetsDir         string  `yaml:"presets_dir"`
	// MaxCanvasSide and MaxCanvasPixels bound every raster a request can
	// size: canvases, scaled designs, overlay layers and decoded inputs.
	MaxCanvasSide   int `yaml:"max_canvas_side"`
	MaxCanvasPixels int `yaml:"max_canvas_pixels"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			BodyLimitMB:     10,
			GinMode:         "release",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Fetch: Fetch{
			Timeout:      15 * time.Second,
			MaxRedirects: 5,
			MaxBytes:     50 << 20,
			QRSize:       400,
		},
		Store: Store{
			Backend:       "memory",
			Dir:           "data/out",
			TTL:           time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Delivery: Delivery{
			Mode:           "url",
			WebhookTimeout: 10 * time.Second,
		},
		Print: Print{
			DefaultSafePercent: 90,
			DefaultDPI:         300,
			PresetsDir:         "data",
			MaxCanvasSide:      16000,
			MaxCanvasPixels:    64_000_000,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	applyEnv(&cfg, os.Getenv)
	return cfg, cfg.Validate()
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Parse decodes YAML into cfg, expanding ${VAR} references first. Keys
// missing from data keep cfg's current values.
func Parse(data []byte, cfg *Config) error {
	expanded := envVarPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(envVarPattern.FindSubmatch(m)[1])))
	})
	return yaml.Unmarshal(expanded, cfg)
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = v
	}
	if v := getenv("STORE_DIR"); v != "" {
		cfg.Store.Backend = "disk"
		cfg.Store.Dir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("BLOCK_PRIVATE_NETWORKS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Fetch.BlockPrivateNetworks = b
		}
	}
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number", c.Server.Port)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}
	switch strings.ToLower(c.Store.Backend) {
	case "memory", "disk":
	default:
		return fmt.Errorf("store.backend must be memory or disk, got %q", c.Store.Backend)
	}
	if strings.EqualFold(c.Store.Backend, "disk") && c.Store.Dir == "" {
		return fmt.Errorf("store.dir is required for the disk backend")
	}
	switch strings.ToLower(c.Delivery.Mode) {
	case "url", "inline":
	default:
		return fmt.Errorf("delivery.mode must be url or inline, got %q", c.Delivery.Mode)
	}
	if p := c.Print.DefaultSafePercent; p <= 0 || p > 100 {
		return fmt.Errorf("print.default_safe_percent must be in (0,100], got %v", p)
	}
	if c.Print.MaxCanvasSide <= 0 || c.Print.MaxCanvasPixels <= 0 {
		return fmt.Errorf("print.max_canvas_side and print.max_canvas_pixels must be positive")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must not be negative")
	}
	return nil
}
