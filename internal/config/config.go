package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	LDAP      LDAPConfig      `yaml:"ldap"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type LDAPConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	BaseDN       string `yaml:"base_dn"`
	BindDN       string `yaml:"bind_dn"`
	BindPassword string `yaml:"bind_password"`
	UserFilter   string `yaml:"user_filter"`
	UseSSL       bool   `yaml:"use_ssl"`
}

// SessionConfig controls the server-side session store used to remember
// per-user list preferences such as the page size.
type SessionConfig struct {
	CookieName      string `yaml:"cookie_name"`
	TTLHours        int    `yaml:"ttl_hours"`
	DefaultPageSize int    `yaml:"default_page_size"`
}

type RateLimitConfig struct {
	LoginRPS   float64 `yaml:"login_rps"`
	LoginBurst int     `yaml:"login_burst"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.applyDefaults()
	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "taskhive.db",
		},
		JWT: JWTConfig{
			Secret:     "taskhive-secret-key-change-in-production",
			ExpireHour: 24,
		},
		LDAP: LDAPConfig{
			Enabled:    false,
			Port:       389,
			UserFilter: "(uid=%s)",
		},
		Session: SessionConfig{
			CookieName:      "taskhive_session",
			TTLHours:        24 * 14,
			DefaultPageSize: 5,
		},
		RateLimit: RateLimitConfig{
			LoginRPS:   5,
			LoginBurst: 10,
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = def.Server.Mode
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = def.Database.DSN
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = def.JWT.Secret
	}
	if c.JWT.ExpireHour <= 0 {
		c.JWT.ExpireHour = def.JWT.ExpireHour
	}
	if c.LDAP.Port == 0 {
		c.LDAP.Port = def.LDAP.Port
	}
	if c.LDAP.UserFilter == "" {
		c.LDAP.UserFilter = def.LDAP.UserFilter
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = def.Session.CookieName
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = def.Session.TTLHours
	}
	if c.Session.DefaultPageSize <= 0 {
		c.Session.DefaultPageSize = def.Session.DefaultPageSize
	}
	if c.RateLimit.LoginRPS <= 0 {
		c.RateLimit.LoginRPS = def.RateLimit.LoginRPS
	}
	if c.RateLimit.LoginBurst <= 0 {
		c.RateLimit.LoginBurst = def.RateLimit.LoginBurst
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if pageSize := os.Getenv("DEFAULT_PAGE_SIZE"); pageSize != "" {
		if n, err := strconv.Atoi(pageSize); err == nil && n > 0 {
			c.Session.DefaultPageSize = n
		}
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
