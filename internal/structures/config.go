package structures

import (
	"path/filepath"
	"time"
)

type Server struct {
	Host string `yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" mapstructure:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	FilePath     string        `yaml:"filePath" mapstructure:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" mapstructure:"saveInterval" validate:"required|min:1"`
	ColdDir      string        `yaml:"coldDir" mapstructure:"coldDir"`
	ColdTTL      time.Duration `yaml:"coldTTL" mapstructure:"coldTTL"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
}

type ClassifierConfig struct {
	BaseURL     string        `yaml:"baseURL" mapstructure:"baseURL" validate:"required|fullUrl"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodySize int64         `yaml:"maxBodySize" mapstructure:"maxBodySize"`
}

type SessionConfig struct {
	CookieName    string        `yaml:"cookieName" mapstructure:"cookieName"`
	IdleTTL       time.Duration `yaml:"idleTTL" mapstructure:"idleTTL"`
	SweepInterval time.Duration `yaml:"sweepInterval" mapstructure:"sweepInterval"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Size    int           `yaml:"size" mapstructure:"size"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type NoticeConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type Config struct {
	AppName     string           `yaml:"-" mapstructure:"-"`
	Debug       bool             `yaml:"-" mapstructure:"-"`
	Path        string           `yaml:"-" mapstructure:"-"`
	WebServer   Server           `yaml:"webServer" mapstructure:"webServer"`
	Classifier  ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Session     SessionConfig    `yaml:"session" mapstructure:"session"`
	Persistence Persistence      `yaml:"persistence" mapstructure:"persistence"`
	Logger      LoggerConfig     `yaml:"logger" mapstructure:"logger"`
	Cache       CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Notice      NoticeConfig     `yaml:"notice" mapstructure:"notice"`
	Metrics     MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

const (
	DefaultClassifierTimeout = 30 * time.Second
	DefaultMaxBodySize       = 1 << 20
	DefaultCookieName        = "dtr_session"
	DefaultIdleTTL           = 24 * time.Hour
	DefaultSweepInterval     = 10 * time.Minute
	DefaultNoticeTTL         = 3 * time.Second
	DefaultCacheTTL          = 5 * time.Minute
	DefaultColdTTL           = 30 * 24 * time.Hour
)

// ApplyDefaults fills optional settings left empty in the config file.
func (c *Config) ApplyDefaults() {
	if c.Classifier.Timeout <= 0 {
		c.Classifier.Timeout = DefaultClassifierTimeout
	}
	if c.Classifier.MaxBodySize <= 0 {
		c.Classifier.MaxBodySize = DefaultMaxBodySize
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Session.IdleTTL <= 0 {
		c.Session.IdleTTL = DefaultIdleTTL
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = DefaultSweepInterval
	}
	if c.Notice.TTL <= 0 {
		c.Notice.TTL = DefaultNoticeTTL
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Persistence.ColdDir == "" && c.Persistence.FilePath != "" {
		c.Persistence.ColdDir = filepath.Join(filepath.Dir(c.Persistence.FilePath), "cold")
	}
	if c.Persistence.ColdTTL <= 0 {
		c.Persistence.ColdTTL = DefaultColdTTL
	}
}
