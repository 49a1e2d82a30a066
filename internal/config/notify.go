package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	envconfig "studyhub/pkg/config"
)

// Defaults for the notifier binding.
const (
	DefaultWebhookTimeout  = 5 * time.Second
	DefaultWebhookUsername = "StudyHub Moderation"
	DefaultNotifyLogPath   = "/var/log/studyhub/report-notifications.log"
	MaxWebhookTimeout      = time.Minute
)

// NotifyConfig selects and configures the moderation notifier.
type NotifyConfig struct {
	// Notifier is the registry key of the implementation. Empty selects the default.
	Notifier         string
	WebhookURL       string
	WebhookTimeout   time.Duration
	WebhookUsername  string
	WebhookAvatarURL string
	LogPath          string
}

// DefaultNotifyConfig returns the binding used when nothing is configured.
func DefaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		WebhookTimeout:  DefaultWebhookTimeout,
		WebhookUsername: DefaultWebhookUsername,
		LogPath:         DefaultNotifyLogPath,
	}
}

// notifyFile is the on-disk layout of NOTIFY_CONFIG_FILE.
type notifyFile struct {
	Notify struct {
		Notifier string `yaml:"notifier"`
		Webhook  struct {
			URL       string        `yaml:"url"`
			Timeout   time.Duration `yaml:"timeout"`
			Username  string        `yaml:"username"`
			AvatarURL string        `yaml:"avatar_url"`
		} `yaml:"webhook"`
		LogPath string `yaml:"log_path"`
	} `yaml:"notify"`
}

// LoadNotifyFile reads a YAML notifier binding and merges it over base.
// Keys absent from the file keep the value in base.
func LoadNotifyFile(path string, base NotifyConfig) (NotifyConfig, error) {
	// #nosec G304 -- path comes from operator configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read notify config file: %w", err)
	}

	var f notifyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return base, fmt.Errorf("failed to parse notify config: %w", err)
	}

	cfg := base
	if f.Notify.Notifier != "" {
		cfg.Notifier = f.Notify.Notifier
	}
	if f.Notify.Webhook.URL != "" {
		cfg.WebhookURL = f.Notify.Webhook.URL
	}
	if f.Notify.Webhook.Timeout != 0 {
		cfg.WebhookTimeout = f.Notify.Webhook.Timeout
	}
	if f.Notify.Webhook.Username != "" {
		cfg.WebhookUsername = f.Notify.Webhook.Username
	}
	if f.Notify.Webhook.AvatarURL != "" {
		cfg.WebhookAvatarURL = f.Notify.Webhook.AvatarURL
	}
	if f.Notify.LogPath != "" {
		cfg.LogPath = f.Notify.LogPath
	}

	if err := validateNotifyConfig(&cfg); err != nil {
		return base, fmt.Errorf("notify config validation failed: %w", err)
	}
	return cfg, nil
}

func validateNotifyConfig(cfg *NotifyConfig) error {
	if err := envconfig.ValidateNonNegativeDuration(cfg.WebhookTimeout); err != nil {
		return fmt.Errorf("webhook timeout must not be negative: %w", err)
	}
	if err := envconfig.ValidateDurationRange(cfg.WebhookTimeout, 0, MaxWebhookTimeout); err != nil {
		return fmt.Errorf("webhook timeout: %w", err)
	}
	if cfg.LogPath == "" {
		return fmt.Errorf("log_path must not be empty")
	}
	return nil
}

// EnvSource resolves NotifyConfig from the optional YAML file named by
// NOTIFY_CONFIG_FILE and then the NOTIFY* environment variables, which win.
// It reads the environment on every Load so a changed binding is picked up
// by the next report without a restart.
type EnvSource struct{}

// Load implements notify.ConfigSource.
func (EnvSource) Load() (NotifyConfig, error) {
	cfg := DefaultNotifyConfig()

	if path := envconfig.GetEnvString("NOTIFY_CONFIG_FILE", ""); path != "" {
		fromFile, err := LoadNotifyFile(path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = fromFile
	}

	cfg.Notifier = envconfig.GetEnvString("NOTIFIER", cfg.Notifier)
	cfg.WebhookURL = envconfig.GetEnvString("NOTIFY_WEBHOOK_URL", cfg.WebhookURL)
	cfg.WebhookUsername = envconfig.GetEnvString("NOTIFY_WEBHOOK_USERNAME", cfg.WebhookUsername)
	cfg.WebhookAvatarURL = envconfig.GetEnvString("NOTIFY_WEBHOOK_AVATAR_URL", cfg.WebhookAvatarURL)
	cfg.LogPath = envconfig.GetEnvString("NOTIFY_LOG_PATH", cfg.LogPath)
	if d := envconfig.GetEnvDuration("NOTIFY_WEBHOOK_TIMEOUT", cfg.WebhookTimeout); d > 0 {
		cfg.WebhookTimeout = d
	}
	if cfg.WebhookTimeout <= 0 {
		cfg.WebhookTimeout = DefaultWebhookTimeout
	}
	if err := envconfig.ValidateDurationRange(cfg.WebhookTimeout, 0, MaxWebhookTimeout); err != nil {
		slog.Warn("NOTIFY_WEBHOOK_TIMEOUT out of range, using default",
			slog.Duration("value", cfg.WebhookTimeout),
			slog.Duration("default", DefaultWebhookTimeout),
			slog.Any("error", err))
		cfg.WebhookTimeout = DefaultWebhookTimeout
	}

	return cfg, nil
}
