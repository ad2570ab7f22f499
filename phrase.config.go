package phrase

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defaults
const (
	DefaultConfigFile    = "phrase.yaml"
	DefaultProfile       = "???"
	DefaultLogLevel      = "info"
	DefaultStorageDriver = StorageDriverNameMemory
)

// Config is the process level configuration, read from YAML:
//
//	profile: production
//	logging:
//	  enabled: true
//	  level: debug
//	bracket: curly
//	storage:
//	  driver: sqlite
//	  dsn: ./phrases.db
//	  cache:
//	    enabled: true
//	    ttl: 5m
type Config struct {
	// Profile names the build or deployment profile.
	Profile string        `yaml:"profile"`
	Logging LoggingConfig `yaml:"logging"`
	Bracket Bracket       `yaml:"bracket"`
	Storage StorageConfig `yaml:"storage"`
}

// LoggingConfig controls the logger returned by Config.NewLogger.
type LoggingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// StorageConfig selects and configures the phrase storage.
type StorageConfig struct {
	Driver string             `yaml:"driver"`
	DSN    string             `yaml:"dsn"`
	Cache  StorageCacheConfig `yaml:"cache"`
}

// StorageCacheConfig enables CachedStorage around the configured driver.
type StorageCacheConfig struct {
	Enabled     bool `yaml:"enabled"`
	CacheConfig `yaml:",inline"`
}

// DefaultConfig returns the configuration used when no file exists:
// logging off, curly brackets, uncached memory storage.
func DefaultConfig() *Config {
	return &Config{
		Profile: DefaultProfile,
		Logging: LoggingConfig{
			Enabled: false,
			Level:   DefaultLogLevel,
		},
		Bracket: BracketCurly,
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
			Cache: StorageCacheConfig{
				CacheConfig: DefaultCacheConfig(),
			},
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// is not an error: the defaults are returned. A file that exists but cannot
// be read or parsed is an ErrInvalidConfig.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, NewConfigError(ErrMsgConfigRead, path, err)
	}

	if err := config.Parse(data); err != nil {
		return nil, NewConfigError(ErrMsgConfigParse, path, err)
	}
	return config, nil
}

// Parse decodes YAML over the current values and validates the result.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	if !c.Bracket.Valid() {
		return NewUnknownBracketError(c.Bracket.String())
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// NewLogger returns a Nop logger when logging is disabled, otherwise a zap
// production (or development) logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if !c.Logging.Enabled {
		return zap.NewNop(), nil
	}

	level, err := c.level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String(LogFieldProfile, c.Profile)), nil
}

// TemplateOptions returns the template options implied by the config.
func (c *Config) TemplateOptions(logger *zap.Logger) []Option {
	return []Option{WithBracket(c.Bracket), WithLogger(logger)}
}

// OpenStorage opens the configured driver, wrapped in a CachedStorage when
// caching is enabled.
func (c *Config) OpenStorage() (PhraseStorage, error) {
	driver := c.Storage.Driver
	if driver == "" {
		driver = DefaultStorageDriver
	}
	storage, err := OpenStorage(driver, c.Storage.DSN)
	if err != nil {
		return nil, err
	}
	if c.Storage.Cache.Enabled {
		return NewCachedStorage(storage, c.Storage.Cache.CacheConfig), nil
	}
	return storage, nil
}

func (c *Config) level() (zapcore.Level, error) {
	name := strings.TrimSpace(c.Logging.Level)
	if name == "" {
		name = DefaultLogLevel
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return level, NewConfigError(ErrMsgLogLevel, "", err)
	}
	return level, nil
}
