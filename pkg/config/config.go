package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/prosemirror-api/pkg/enums"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Metrics MetricsConfig
	Editor  EditorConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"APP_ENV" default:"development" validate:"required"`
	Port         string `envconfig:"PORT" default:"3000" validate:"required,numeric"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"LOG_FORMAT" validate:"omitempty,oneof=json console"`
}

func (a AppConfig) IsDev() bool {
	env, err := enums.ParseAppEnv(a.Env)
	return err == nil && env == enums.AppEnvDevelopment
}

// ResolveLogFormat returns the configured log format. When LOG_FORMAT is unset,
// development gets console output and every other environment gets JSON.
func (a AppConfig) ResolveLogFormat() (enums.LogFormat, error) {
	if a.LogFormat == "" {
		if a.IsDev() {
			return enums.LogFormatConsole, nil
		}
		return enums.LogFormatJSON, nil
	}
	return enums.ParseLogFormat(a.LogFormat)
}

type HTTPConfig struct {
	MaxBodyBytes      int64         `envconfig:"MAX_BODY_BYTES" default:"10485760" validate:"gt=0"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s" validate:"gt=0"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// EditorConfig holds the document schema options that are safe to change per
// deployment. An empty value drops the attribute default.
type EditorConfig struct {
	LinkTarget string `envconfig:"LINK_TARGET" default:"_blank"`
	LinkRel    string `envconfig:"LINK_REL" default:"noopener noreferrer nofollow ugc"`
}
