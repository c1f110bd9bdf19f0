package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	GitHub   GitHubConfig
	Mailer   MailerConfig
	Monitor  MonitorConfig
}

type ServerConfig struct {
	Port          string
	Mode          string
	HookRateLimit float64
	HookRateBurst int
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
}

type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GitHubConfig struct {
	AppID          string
	PrivateKeyPath string
	WebhookSecret  string
	APIBaseURL     string
}

type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

type MonitorConfig struct {
	// InactiveAfter and DisableAfter carry no defaults; the monitor
	// command refuses to start without them.
	InactiveAfter time.Duration
	DisableAfter  time.Duration
	CheckInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("DEVPUSH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv; bind them so
	// env-only deployments can set the monitor thresholds.
	for _, key := range []string{
		"monitor.inactiveafter",
		"monitor.disableafter",
		"monitor.checkinterval",
		"github.appid",
		"github.privatekeypath",
		"mailer.baseurl",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.hookratelimit", 10.0)
	viper.SetDefault("server.hookrateburst", 20)
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.maxidleconns", 5)
	viper.SetDefault("auth.accesstokenttl", "15m")
	viper.SetDefault("auth.refreshtokenttl", "720h")
	viper.SetDefault("github.apibaseurl", "https://api.github.com")
	viper.SetDefault("mailer.from", "noreply@devpush.dev")
	viper.SetDefault("monitor.checkinterval", "5m")

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if secret := os.Getenv("GITHUB_WEBHOOK_SECRET"); secret != "" {
		cfg.GitHub.WebhookSecret = secret
	}
	if key := os.Getenv("MAILER_API_KEY"); key != "" {
		cfg.Mailer.APIKey = key
	}

	return &cfg, nil
}

// ValidateMonitor checks the settings the monitoring worker cannot run
// without. The inactivity thresholds are deployment policy, so there is
// no built-in value to fall back on.
func (c *Config) ValidateMonitor() error {
	if c.Monitor.InactiveAfter <= 0 {
		return fmt.Errorf("monitor.inactiveafter is required")
	}
	if c.Monitor.DisableAfter <= 0 {
		return fmt.Errorf("monitor.disableafter is required")
	}
	if c.Monitor.DisableAfter <= c.Monitor.InactiveAfter {
		return fmt.Errorf("monitor.disableafter must be longer than monitor.inactiveafter")
	}
	return nil
}
