package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/presence-analyzer/")
	v.AddConfigPath("$HOME/.presence-analyzer")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("PRESENCE_ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Data source defaults
	v.SetDefault("data.presence_csv", "runtime/data/sample_data.csv")
	v.SetDefault("data.directory_xml", "runtime/data/users.xml")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "10m")

	// Ranking defaults; the window and denominator match the reporting
	// period the statistics were originally calibrated for.
	v.SetDefault("ranking.year", 2013)
	v.SetDefault("ranking.start_month", 1)
	v.SetDefault("ranking.months", 9)
	v.SetDefault("ranking.working_days", 189)
	v.SetDefault("ranking.max_zero_months", 4)

	// Reminder defaults
	v.SetDefault("reminder.top_n", 5)
	v.SetDefault("reminder.cooldown_days", 120)
	v.SetDefault("reminder.subject", "Your presence in the office")
	v.SetDefault("reminder.interval", "24h")
	v.SetDefault("reminder.excluded_users", []int{})

	// Mail log defaults
	v.SetDefault("maillog.type", "sqlite")
	v.SetDefault("maillog.sqlite_path", "/data/mail_log.db")
	v.SetDefault("maillog.mysql_dsn", "user:password@tcp(localhost:3306)/presence_analyzer")

	// Notifier defaults
	v.SetDefault("notifier.type", "log")
	v.SetDefault("smtp.address", "localhost:25")
	v.SetDefault("smtp.from", "presence-analyzer@localhost")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetIntSlice gets an integer slice value from the configuration
func (c *Config) GetIntSlice(key string) []int {
	return c.v.GetIntSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
