package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the server and the command-line client.
type Config struct {
	// ServerAddress is the gRPC address the server listens on and the client dials.
	ServerAddress string `yaml:"server_addr" env:"MEDALARM_SERVER_ADDR"`
	// HTTPAddress is the REST and metrics listen address; empty disables HTTP.
	HTTPAddress string `yaml:"http_addr" env:"MEDALARM_HTTP_ADDR"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout" env:"MEDALARM_TIMEOUT"`
	// TimeZone names the zone of alarm times and calendar days; empty means local.
	TimeZone string `yaml:"timezone" env:"MEDALARM_TIMEZONE"`
	// Store selects the alarm store; only "memory" is supported, so alarms are lost on restart.
	Store string `yaml:"store" env:"MEDALARM_STORE"`
	// DatabaseURL is the PostgreSQL connection string for the clinic directory and notifications.
	DatabaseURL string `yaml:"database_url" env:"MEDALARM_DATABASE_URL"`

	Log       LogConfig       `yaml:"log"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Directory DirectoryConfig `yaml:"directory"`
	Notifier  NotifierConfig  `yaml:"notifier"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"  env:"MEDALARM_LOG_LEVEL"`
	Format string `yaml:"format" env:"MEDALARM_LOG_FORMAT"`
}

// SweepConfig controls due-alarm detection and dispatch.
type SweepConfig struct {
	// Interval between in-process sweeps; zero disables the scheduler.
	Interval time.Duration `yaml:"interval" env:"MEDALARM_SWEEP_INTERVAL"`
	// Tolerance is the due window around the alarm time.
	Tolerance time.Duration `yaml:"tolerance" env:"MEDALARM_SWEEP_TOLERANCE"`
	// Concurrency caps parallel notification calls.
	Concurrency int `yaml:"concurrency" env:"MEDALARM_SWEEP_CONCURRENCY"`
	// DispatchTimeout bounds one notification call.
	DispatchTimeout time.Duration `yaml:"dispatch_timeout" env:"MEDALARM_SWEEP_DISPATCH_TIMEOUT"`
}

// DirectoryConfig selects where patients and medications are looked up.
type DirectoryConfig struct {
	// Kind is "postgres" or "file".
	Kind string `yaml:"kind" env:"MEDALARM_DIRECTORY_KIND"`
	// FixturePath is the YAML fixture used by the "file" kind.
	FixturePath string `yaml:"fixture_path" env:"MEDALARM_DIRECTORY_FIXTURE"`
}

// NotifierConfig selects where reminders are delivered.
type NotifierConfig struct {
	// Kind is "log", "postgres" or "redis".
	Kind string `yaml:"kind" env:"MEDALARM_NOTIFIER_KIND"`
	// RedisAddress is the host:port of the Redis server for the "redis" kind.
	RedisAddress string `yaml:"redis_addr" env:"MEDALARM_REDIS_ADDR"`
	// RedisStream is the stream notifications are appended to.
	RedisStream string `yaml:"redis_stream" env:"MEDALARM_REDIS_STREAM"`
	// RedisMaxLen approximately caps the stream length; zero keeps everything.
	RedisMaxLen int64 `yaml:"redis_max_len" env:"MEDALARM_REDIS_MAX_LEN"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "medication-alarm-settings.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultSweepTolerance is the due window when not configured.
	DefaultSweepTolerance = 5 * time.Minute
	// DefaultSweepConcurrency caps parallel dispatches when not configured.
	DefaultSweepConcurrency = 8
	// DefaultDispatchTimeout bounds one notification call when not configured.
	DefaultDispatchTimeout = 10 * time.Second

	// DefaultRedisStream is the notification stream when not configured.
	DefaultRedisStream = "clinic:notifications"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Supported component kinds.
const (
	StoreMemory = "memory"

	DirectoryPostgres = "postgres"
	DirectoryFile     = "file"

	NotifierLog      = "log"
	NotifierPostgres = "postgres"
	NotifierRedis    = "redis"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errUnsupportedKind is returned for an unknown component kind.
	errUnsupportedKind = errors.New("unsupported kind")
	// errMissingSetting is returned when a selected component lacks a required setting.
	errMissingSetting = errors.New("missing setting")
	// errNegativeSetting is returned for negative durations and limits.
	errNegativeSetting = errors.New("setting must not be negative")
)

// Load reads configuration from the provided path, applies MEDALARM_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields, fills defaults and rejects inconsistent settings.
//
//nolint:cyclop // A flat list of checks reads better than helpers per section.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid HTTP socket: %w", err)
		}
	}

	if _, err := settings.Location(); err != nil {
		return err
	}

	applyDefaults(settings)

	if settings.Store != StoreMemory {
		return fmt.Errorf("%w: store %q", errUnsupportedKind, settings.Store)
	}

	if err := validateSweep(&settings.Sweep); err != nil {
		return err
	}

	switch settings.Directory.Kind {
	case DirectoryPostgres:
		if settings.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url for the postgres directory", errMissingSetting)
		}
	case DirectoryFile:
		if settings.Directory.FixturePath == "" {
			return fmt.Errorf("%w: directory.fixture_path for the file directory", errMissingSetting)
		}
	default:
		return fmt.Errorf("%w: directory %q", errUnsupportedKind, settings.Directory.Kind)
	}

	switch settings.Notifier.Kind {
	case NotifierLog:
	case NotifierPostgres:
		if settings.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url for the postgres notifier", errMissingSetting)
		}
	case NotifierRedis:
		if settings.Notifier.RedisAddress == "" {
			return fmt.Errorf("%w: notifier.redis_addr for the redis notifier", errMissingSetting)
		}
	default:
		return fmt.Errorf("%w: notifier %q", errUnsupportedKind, settings.Notifier.Kind)
	}

	return nil
}

// Location resolves TimeZone; an empty zone is the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}

	return loc, nil
}

// applyDefaults fills unset fields.
func applyDefaults(settings *Config) {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.Store == "" {
		settings.Store = StoreMemory
	}

	if settings.Sweep.Tolerance == 0 {
		settings.Sweep.Tolerance = DefaultSweepTolerance
	}

	if settings.Sweep.Concurrency == 0 {
		settings.Sweep.Concurrency = DefaultSweepConcurrency
	}

	if settings.Sweep.DispatchTimeout == 0 {
		settings.Sweep.DispatchTimeout = DefaultDispatchTimeout
	}

	if settings.Directory.Kind == "" {
		settings.Directory.Kind = DirectoryFile
	}

	if settings.Notifier.Kind == "" {
		settings.Notifier.Kind = NotifierLog
	}

	if settings.Notifier.RedisStream == "" {
		settings.Notifier.RedisStream = DefaultRedisStream
	}
}

// validateSweep rejects negative sweep settings.
func validateSweep(sweep *SweepConfig) error {
	switch {
	case sweep.Interval < 0:
		return fmt.Errorf("%w: sweep.interval", errNegativeSetting)
	case sweep.Tolerance < 0:
		return fmt.Errorf("%w: sweep.tolerance", errNegativeSetting)
	case sweep.Concurrency < 0:
		return fmt.Errorf("%w: sweep.concurrency", errNegativeSetting)
	case sweep.DispatchTimeout < 0:
		return fmt.Errorf("%w: sweep.dispatch_timeout", errNegativeSetting)
	}

	return nil
}
