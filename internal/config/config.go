package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp"`
	Report    ReportConfig    `yaml:"report"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects where the roster snapshot is persisted.
type StorageConfig struct {
	// Backend is "local" (key-value store), "remote" (tabular endpoint) or
	// "sheets" (the sheets this server hosts).
	Backend string       `yaml:"backend"`
	Local   LocalConfig  `yaml:"local"`
	Remote  RemoteConfig `yaml:"remote"`

	// SaveTimeout bounds each snapshot save.
	SaveTimeout time.Duration `yaml:"save_timeout"`
}

type LocalConfig struct {
	// Driver is "sqlite" or "redis".
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SheetsConfig configures the tabular endpoint this server hosts.
type SheetsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Layout  string `yaml:"layout"`

	// Driver is "sqlite" or "postgres".
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ReportConfig struct {
	// FontPath is a TrueType font with CJK glyphs for PDF reports.
	FontPath string `yaml:"font_path"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, fills defaults, then applies environment
// variable overrides. Env vars use the prefix STUDENTUP_:
//
//	STUDENTUP_SERVER_HOST, STUDENTUP_SERVER_PORT,
//	STUDENTUP_STORAGE_BACKEND, STUDENTUP_STORAGE_DRIVER, STUDENTUP_STORAGE_PATH,
//	STUDENTUP_REDIS_ADDR, STUDENTUP_REDIS_PASSWORD, STUDENTUP_REMOTE_URL,
//	STUDENTUP_SHEETS_ENABLED, STUDENTUP_SHEETS_LAYOUT, STUDENTUP_SHEETS_DRIVER,
//	STUDENTUP_DB_HOST, STUDENTUP_DB_PORT, STUDENTUP_DB_NAME,
//	STUDENTUP_DB_USER, STUDENTUP_DB_PASSWORD, STUDENTUP_DB_SSLMODE,
//	STUDENTUP_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.Local.Driver == "" {
		cfg.Storage.Local.Driver = "sqlite"
	}
	if cfg.Storage.Local.Path == "" {
		cfg.Storage.Local.Path = "data/studentup.db"
	}
	if cfg.Storage.SaveTimeout == 0 {
		cfg.Storage.SaveTimeout = 30 * time.Second
	}
	if cfg.Storage.Remote.Timeout == 0 {
		cfg.Storage.Remote.Timeout = 30 * time.Second
	}
	if cfg.Sheets.Layout == "" {
		cfg.Sheets.Layout = "chinese"
	}
	if cfg.Sheets.Driver == "" {
		cfg.Sheets.Driver = "sqlite"
	}
	if cfg.Sheets.Path == "" {
		cfg.Sheets.Path = "data/sheets.db"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "studentup"
	}
}

func applyEnvOverrides(cfg *Config) {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	flag := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("STUDENTUP_SERVER_HOST", &cfg.Server.Host)
	num("STUDENTUP_SERVER_PORT", &cfg.Server.Port)

	str("STUDENTUP_STORAGE_BACKEND", &cfg.Storage.Backend)
	str("STUDENTUP_STORAGE_DRIVER", &cfg.Storage.Local.Driver)
	str("STUDENTUP_STORAGE_PATH", &cfg.Storage.Local.Path)
	str("STUDENTUP_REDIS_ADDR", &cfg.Storage.Local.Redis.Addr)
	str("STUDENTUP_REDIS_PASSWORD", &cfg.Storage.Local.Redis.Password)
	str("STUDENTUP_REMOTE_URL", &cfg.Storage.Remote.URL)

	flag("STUDENTUP_SHEETS_ENABLED", &cfg.Sheets.Enabled)
	str("STUDENTUP_SHEETS_LAYOUT", &cfg.Sheets.Layout)
	str("STUDENTUP_SHEETS_DRIVER", &cfg.Sheets.Driver)
	str("STUDENTUP_DB_HOST", &cfg.Sheets.Database.Host)
	num("STUDENTUP_DB_PORT", &cfg.Sheets.Database.Port)
	str("STUDENTUP_DB_NAME", &cfg.Sheets.Database.Name)
	str("STUDENTUP_DB_USER", &cfg.Sheets.Database.User)
	str("STUDENTUP_DB_PASSWORD", &cfg.Sheets.Database.Password)
	str("STUDENTUP_DB_SSLMODE", &cfg.Sheets.Database.SSLMode)

	str("STUDENTUP_AUTH_API_KEY", &cfg.Auth.APIKey)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}

	switch c.Storage.Backend {
	case "local":
		switch c.Storage.Local.Driver {
		case "sqlite":
		case "redis":
			if c.Storage.Local.Redis.Addr == "" {
				return fmt.Errorf("storage.local.redis.addr is required for the redis driver")
			}
		default:
			return fmt.Errorf("storage.local.driver must be sqlite or redis, got %q", c.Storage.Local.Driver)
		}
	case "remote":
		if c.Storage.Remote.URL == "" {
			return fmt.Errorf("storage.remote.url is required for the remote backend")
		}
	case "sheets":
		if !c.Sheets.Enabled {
			return fmt.Errorf("storage.backend sheets requires sheets.enabled")
		}
	default:
		return fmt.Errorf("storage.backend must be local, remote or sheets, got %q", c.Storage.Backend)
	}

	if c.Sheets.Enabled {
		switch c.Sheets.Layout {
		case "chinese", "english", "separate":
		default:
			return fmt.Errorf("sheets.layout must be chinese, english or separate, got %q", c.Sheets.Layout)
		}
		switch c.Sheets.Driver {
		case "sqlite":
		case "postgres":
			d := c.Sheets.Database
			if d.Host == "" || d.Port == 0 || d.Name == "" || d.User == "" {
				return fmt.Errorf("sheets.database host, port, name and user are required for the postgres driver")
			}
		default:
			return fmt.Errorf("sheets.driver must be sqlite or postgres, got %q", c.Sheets.Driver)
		}
	}
	return nil
}
