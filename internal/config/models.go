package config

import "time"

// DataConfig locates the punch and directory source files.
type DataConfig struct {
	PresenceCSV  string
	DirectoryXML string
}

// CacheConfig controls the presence-load memoizer.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RankingConfig fixes the low-presence ranking window and thresholds.
type RankingConfig struct {
	Year          int
	StartMonth    time.Month
	Months        int
	WorkingDays   int
	MaxZeroMonths int
}

// ReminderConfig controls reminder selection and cadence.
type ReminderConfig struct {
	TopN         int
	CooldownDays int
	Subject      string
	Interval     time.Duration
}

// MailLogConfig selects and locates the persistent dedup store.
type MailLogConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// SMTPConfig represents the configuration for outgoing mail.
type SMTPConfig struct {
	Address  string
	From     string
	Username string
	Password string
}

// ServerConfig represents the HTTP server configuration.
type ServerConfig struct {
	ListenAddress string
}

// GetData returns the data source configuration.
func (c *Config) GetData() DataConfig {
	return DataConfig{
		PresenceCSV:  c.GetString("data.presence_csv"),
		DirectoryXML: c.GetString("data.directory_xml"),
	}
}

// GetCache returns the cache configuration.
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled: c.GetBool("cache.enabled"),
		TTL:     ttl,
	}, nil
}

// GetRanking returns the ranking configuration.
func (c *Config) GetRanking() RankingConfig {
	return RankingConfig{
		Year:          c.GetInt("ranking.year"),
		StartMonth:    time.Month(c.GetInt("ranking.start_month")),
		Months:        c.GetInt("ranking.months"),
		WorkingDays:   c.GetInt("ranking.working_days"),
		MaxZeroMonths: c.GetInt("ranking.max_zero_months"),
	}
}

// GetReminder returns the reminder configuration.
func (c *Config) GetReminder() (ReminderConfig, error) {
	interval, err := c.GetDuration("reminder.interval")
	if err != nil {
		return ReminderConfig{}, err
	}
	return ReminderConfig{
		TopN:         c.GetInt("reminder.top_n"),
		CooldownDays: c.GetInt("reminder.cooldown_days"),
		Subject:      c.GetString("reminder.subject"),
		Interval:     interval,
	}, nil
}

// GetExcludedUsers returns the user IDs that never receive reminder mails.
func (c *Config) GetExcludedUsers() []int {
	return c.GetIntSlice("reminder.excluded_users")
}

// GetMailLog returns the mail-log store configuration.
func (c *Config) GetMailLog() MailLogConfig {
	return MailLogConfig{
		Type:       c.GetString("maillog.type"),
		SQLitePath: c.GetString("maillog.sqlite_path"),
		MySQLDSN:   c.GetString("maillog.mysql_dsn"),
	}
}

// GetSMTP returns the SMTP configuration.
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		From:     c.GetString("smtp.from"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
	}
}

// GetServer returns the HTTP server configuration.
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}
