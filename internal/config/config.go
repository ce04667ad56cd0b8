// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FORMWIZARD_PREDICT_URL.
const EnvPrefix = "FORMWIZARD"

// Cache drivers accepted by cache.driver.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all configuration values for formwizard.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Predict    PredictConfig    `mapstructure:"predict"`
	Definition DefinitionConfig `mapstructure:"definition"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	CSRF         bool          `mapstructure:"csrf"`
}

type PredictConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// DefinitionConfig selects where the wizard comes from. Path wins over
// OpenAPI; both empty means the bundled laptop wizard.
type DefinitionConfig struct {
	Path      string `mapstructure:"path"`
	OpenAPI   string `mapstructure:"openapi"`
	Operation string `mapstructure:"operation"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

type CacheConfig struct {
	Driver string        `mapstructure:"driver" validate:"oneof=none memory redis"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

// RateLimitConfig bounds submissions per client. Zero capacity disables the
// limiter.
type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity" validate:"gte=0"`
	Window   time.Duration `mapstructure:"window" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Options tweak Load.
type Options struct {
	// File is an explicit config file. Empty looks for ./formwizard.yml.
	File string
	// EnvFile is loaded into the environment before reading. Missing files
	// are ignored.
	EnvFile string
}

// Load loads configuration with precedence ENV vars > config file > defaults.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	file := opts.File
	if file == "" && fileExists(ProjectPath()) {
		file = ProjectPath()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("config: decode defaults: %w", err))
	}
	return &cfg
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: rule %q failed for %v", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Cache.Driver == CacheRedis && strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("config: redis.addr is required when cache.driver is redis")
	}
	if c.RateLimit.Capacity > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("config: ratelimit.window must be positive when ratelimit.capacity is set")
	}
	return nil
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "formwizard.yml"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.csrf", true)
	v.SetDefault("predict.url", "http://localhost:5000/predict")
	v.SetDefault("predict.timeout", 15*time.Second)
	v.SetDefault("definition.path", "")
	v.SetDefault("definition.openapi", "")
	v.SetDefault("definition.operation", "")
	v.SetDefault("theme.name", "formwizard")
	v.SetDefault("theme.variant", "")
	v.SetDefault("cache.driver", CacheMemory)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "formwizard:")
	v.SetDefault("ratelimit.capacity", 10)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func (c *Config) normalize() {
	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Predict.URL = strings.TrimSpace(c.Predict.URL)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
