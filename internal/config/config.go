package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ExportConfig holds workbook generation configuration
type ExportConfig struct {
	OutputDir       string                 `mapstructure:"output_dir"`
	RoleWidth       int                    `mapstructure:"role_width"`
	SignatureRoles  []report.SignatureRole `mapstructure:"signature_roles"`
	FontFamily      string                 `mapstructure:"font_family"`
	TimestampFormat string                 `mapstructure:"timestamp_format"`
	MaxPayloadBytes int64                  `mapstructure:"max_payload_bytes"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional .env file, an optional YAML file
// and environment variables, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Export.SignatureRoles) == 0 {
		cfg.Export.SignatureRoles = report.DefaultSignatureRoles()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is fine.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/exports.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Export defaults
	v.SetDefault("export.output_dir", "exports")
	v.SetDefault("export.role_width", report.DefaultRoleWidth)
	v.SetDefault("export.font_family", "Times New Roman")
	v.SetDefault("export.timestamp_format", "20060102_150405")
	v.SetDefault("export.max_payload_bytes", 16<<20)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT", "SERVER_PORT")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("export.output_dir", "EXPORT_OUTPUT_DIR")
	v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	if c.Export.RoleWidth <= 0 {
		return fmt.Errorf("export.role_width must be positive: %d", c.Export.RoleWidth)
	}
	if c.Export.MaxPayloadBytes <= 0 {
		return fmt.Errorf("export.max_payload_bytes must be positive")
	}
	for i, role := range c.Export.SignatureRoles {
		if strings.TrimSpace(role.Title) == "" {
			return fmt.Errorf("export.signature_roles[%d].title is required", i)
		}
	}
	return nil
}
