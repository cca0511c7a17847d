package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingConfig marks a required setting that was not provided.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds all billing notifier configuration.
type Config struct {
	AWS      AWSConfig      `mapstructure:"aws"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Messages MessagesConfig `mapstructure:"messages"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AWSConfig identifies the account, budget and region to query.
type AWSConfig struct {
	AccountID  string `mapstructure:"account_id"`
	BudgetName string `mapstructure:"budget_name"`
	Region     string `mapstructure:"region"`
}

// WebhookConfig defines the notification destination.
type WebhookConfig struct {
	URL       string        `mapstructure:"url"`
	AvatarURL string        `mapstructure:"avatar_url"`
	Username  string        `mapstructure:"username"`
	Format    string        `mapstructure:"format"`
	Secret    string        `mapstructure:"secret"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// MessagesConfig selects the display catalog.
type MessagesConfig struct {
	Locale string `mapstructure:"locale"`
	File   string `mapstructure:"file"`
}

// ServerConfig defines the HTTP trigger settings.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Webhook formats.
const (
	FormatDiscord = "discord"
	FormatSlack   = "slack"
)

// legacyEnv maps config keys to the environment names used by the
// deployed Lambda function.
var legacyEnv = map[string]string{
	"aws.account_id":     "accountId",
	"webhook.url":        "WebhookURL",
	"aws.budget_name":    "budgetName",
	"aws.region":         "regionName",
	"webhook.avatar_url": "awsIcon",
}

// Load reads configuration from file and environment variables and
// validates it.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".billing-notify"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	v.SetDefault("webhook.format", FormatDiscord)
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.username", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("messages.file", "")
	v.SetDefault("messages.locale", "")
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("BN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env, "BN_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required setting is present and that the
// optional ones hold known values. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		env   string
		value string
	}{
		{"accountId", c.AWS.AccountID},
		{"WebhookURL", c.Webhook.URL},
		{"budgetName", c.AWS.BudgetName},
		{"regionName", c.AWS.Region},
		{"awsIcon", c.Webhook.AvatarURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingConfig, r.env))
		}
	}

	switch c.Webhook.Format {
	case FormatDiscord, FormatSlack:
	default:
		errs = append(errs, fmt.Errorf("unknown webhook format %q", c.Webhook.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
