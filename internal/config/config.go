package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Google  GoogleConfig  `mapstructure:"google"`
	Mail    MailConfig    `mapstructure:"mail"`
	Intake  IntakeConfig  `mapstructure:"intake"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GoogleConfig struct {
	// ServiceAccountBase64 is the base64-encoded service account JSON key.
	ServiceAccountBase64 string `mapstructure:"service_account_base64"`
	DriveFolderID        string `mapstructure:"drive_folder_id"`
	SheetsID             string `mapstructure:"sheets_id"`
	SheetRange           string `mapstructure:"sheet_range"`

	// Base URLs are overridable for tests against httptest servers.
	DriveUploadURL string        `mapstructure:"drive_upload_url"`
	SheetsURL      string        `mapstructure:"sheets_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type MailConfig struct {
	SendGridAPIKey string        `mapstructure:"sendgrid_api_key"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	From           string        `mapstructure:"from"`
	To             string        `mapstructure:"to"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type IntakeConfig struct {
	OrientationURL    string   `mapstructure:"orientation_url"`
	MaxFileBytes      int64    `mapstructure:"max_file_bytes"`
	UploadConcurrency int      `mapstructure:"upload_concurrency"`
	HoneypotField     string   `mapstructure:"honeypot_field"`
	RequiredFields    []string `mapstructure:"required_fields"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8086)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("google.sheet_range", "Submissions!A1")
	v.SetDefault("google.drive_upload_url", "https://www.googleapis.com/upload/drive/v3/files")
	v.SetDefault("google.sheets_url", "https://sheets.googleapis.com")
	v.SetDefault("google.timeout", "30s")
	v.SetDefault("mail.api_base_url", "https://api.sendgrid.com")
	v.SetDefault("mail.timeout", "10s")
	v.SetDefault("intake.orientation_url", "https://www.healthmatters.clinic/orientation")
	v.SetDefault("intake.max_file_bytes", 25*1024*1024)
	v.SetDefault("intake.upload_concurrency", 4)
	v.SetDefault("intake.honeypot_field", "website")
	v.SetDefault("intake.required_fields", []string{"name", "email"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/board-intake")
	}

	// Environment variables override, e.g. INTAKE_GOOGLE_SHEETS_ID
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	// viper.AutomaticEnv only resolves env vars for known keys, so bind the
	// required secrets explicitly.
	for _, key := range []string{
		"google.service_account_base64",
		"google.drive_folder_id",
		"google.sheets_id",
		"mail.sendgrid_api_key",
		"mail.from",
		"mail.to",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces the settings the service cannot start without. Absence
// of any of these is fatal before the first request is served.
func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"google.service_account_base64", c.Google.ServiceAccountBase64},
		{"google.drive_folder_id", c.Google.DriveFolderID},
		{"google.sheets_id", c.Google.SheetsID},
		{"mail.sendgrid_api_key", c.Mail.SendGridAPIKey},
		{"mail.from", c.Mail.From},
		{"mail.to", c.Mail.To},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required config: %s", r.name)
		}
	}

	return nil
}
