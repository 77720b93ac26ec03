package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	// QueryTimeout bounds every read and write on the MySQL connection.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// GetDSN builds the MySQL DSN. Read and write timeouts are the repository
// query timeout; a timed-out query surfaces as an internal error.
// clientFoundRows makes RowsAffected count matched rows, which the
// optimistic version check relies on.
func (d *DatabaseConfig) GetDSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC&clientFoundRows=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
	if d.QueryTimeout > 0 {
		dsn += fmt.Sprintf("&readTimeout=%s&writeTimeout=%s", d.QueryTimeout, d.QueryTimeout)
	}
	return dsn
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type StorageConfig struct {
	Root          string `mapstructure:"root"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MaxFileBytes  int64  `mapstructure:"max_file_bytes"`
	MaxFiles      int    `mapstructure:"max_files"`
}

// Read tracking modes.
const (
	ReadTrackingAuto = "auto"
	ReadTrackingOn   = "on"
	ReadTrackingOff  = "off"
)

type TicketConfig struct {
	// ReadTracking is "auto" (probe the read-marker table at startup), "on" or "off".
	ReadTracking        string `mapstructure:"read_tracking"`
	ReopenClosedOnReply bool   `mapstructure:"reopen_closed_on_reply"`
	NumberMaxAttempts   int    `mapstructure:"number_max_attempts"`
	PreviewLength       int    `mapstructure:"preview_length"`
}

type PermissionConfig struct {
	// PolicyFile is a YAML file listing handler and admin user ids.
	PolicyFile string `mapstructure:"policy_file"`
}

type NotificationConfig struct {
	BufferSize   int    `mapstructure:"buffer_size"`
	EmailEnabled bool   `mapstructure:"email_enabled"`
	RedisEnabled bool   `mapstructure:"redis_enabled"`
	RedisChannel string `mapstructure:"redis_channel"`
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	WriteRequests int           `mapstructure:"write_requests"`
	Window        time.Duration `mapstructure:"window"`
}
