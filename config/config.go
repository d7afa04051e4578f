package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the amortizer.
type Config struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr" validate:"required"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
		IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	} `mapstructure:"http"`
	RateLimit struct {
		Capacity int           `mapstructure:"capacity" validate:"gt=0"`
		Refill   time.Duration `mapstructure:"refill" validate:"gt=0"`
	} `mapstructure:"rate_limit"`
	Cache struct {
		TTL        time.Duration `mapstructure:"ttl" validate:"gte=0"`
		MaxEntries int           `mapstructure:"max_entries" validate:"gt=0"` // in-memory cache only
	} `mapstructure:"cache"`
	Redis struct {
		Addr     string `mapstructure:"addr"` // empty selects the in-memory cache
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db" validate:"gte=0"`
	} `mapstructure:"redis"`
	Log struct {
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	} `mapstructure:"log"`
}

// EnvPrefix is prepended to every environment override, e.g. AMORTIZER_HTTP_ADDR.
const EnvPrefix = "AMORTIZER"

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("rate_limit.capacity", 60)
	v.SetDefault("rate_limit.refill", time.Minute)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
}

// Load reads defaults, then the optional file at path, then environment
// variables, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and reports every failing field at once.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate config: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}
