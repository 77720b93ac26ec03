package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/campusdesk/campusdesk/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Auth         sharedConfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Storage      sharedConfig.StorageConfig      `mapstructure:"storage"`
	Ticket       sharedConfig.TicketConfig       `mapstructure:"ticket"`
	Permission   sharedConfig.PermissionConfig   `mapstructure:"permission"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (if present) and CAMPUSDESK_* environment
// variables on top of the defaults below.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("CAMPUSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// defaults and environment are enough without a file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func validate(c *Config) error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	switch c.Ticket.ReadTracking {
	case sharedConfig.ReadTrackingAuto, sharedConfig.ReadTrackingOn, sharedConfig.ReadTrackingOff:
	default:
		return fmt.Errorf("ticket.read_tracking must be auto, on or off, got %q", c.Ticket.ReadTracking)
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "campusdesk_dev")
	v.SetDefault("database.sqlite_path", "campusdesk.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.query_timeout", "10s")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)

	// Email defaults
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "helpdesk@campusdesk.local")
	v.SetDefault("email.from_name", "Campus Help Desk")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Storage defaults
	v.SetDefault("storage.root", "./data/attachments")
	v.SetDefault("storage.public_base_url", "/api/v1/attachments")
	v.SetDefault("storage.max_file_bytes", 10<<20)
	v.SetDefault("storage.max_files", 5)

	// Ticket workflow defaults
	v.SetDefault("ticket.read_tracking", sharedConfig.ReadTrackingAuto)
	v.SetDefault("ticket.reopen_closed_on_reply", true)
	v.SetDefault("ticket.number_max_attempts", 32)
	v.SetDefault("ticket.preview_length", 150)

	// Permission defaults
	v.SetDefault("permission.policy_file", "./configs/roles.yaml")

	// Notification defaults
	v.SetDefault("notification.buffer_size", 256)
	v.SetDefault("notification.email_enabled", false)
	v.SetDefault("notification.redis_enabled", false)
	v.SetDefault("notification.redis_channel", "campusdesk:ticket-events")

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.write_requests", 30)
	v.SetDefault("rate_limit.window", "1m")
}
