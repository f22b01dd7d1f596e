package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Review   ReviewConfig   `mapstructure:"review"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"min=1,max=65535"`
	Database        string            `mapstructure:"database" validate:"required"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"min=0"`
	// MaxRetryAttempts is how many times a review update is retried after a deadlock.
	MaxRetryAttempts uint `mapstructure:"max_retry_attempts" validate:"max=10"`
}

type ReviewConfig struct {
	ScheduleLimit int    `mapstructure:"schedule_limit" validate:"min=1"`
	TimeZone      string `mapstructure:"time_zone" validate:"required,location"`
	// CardTemplate is optional. The embedded card template is used when empty.
	CardTemplate string `mapstructure:"card_template" validate:"omitempty,file"`
}

// Location returns the zone that decides which calendar day "today" is.
func (c ReviewConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s) > %w", c.TimeZone, err)
	}
	return loc, nil
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/glean")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "glean")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.max_retry_attempts", 3)
	v.SetDefault("review.schedule_limit", 10)
	v.SetDefault("review.time_zone", "Local")
	v.SetDefault("review.card_template", "")

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("review.time_zone", "GLEAN_TIME_ZONE"); err != nil {
		return nil, fmt.Errorf("failed to bind GLEAN_TIME_ZONE environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
