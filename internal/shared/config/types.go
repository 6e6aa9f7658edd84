package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Mode               string `mapstructure:"mode"`
	Timezone           string `mapstructure:"timezone"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

// IsSQLite reports whether the sqlite driver is selected.
func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
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

// VaultConfig holds the process-wide session credential key.
type VaultConfig struct {
	Key string `mapstructure:"key"`
}

// PlatformConfig describes how to reach the charting platform.
type PlatformConfig struct {
	BaseURL               string `mapstructure:"base_url"`
	UserAgent             string `mapstructure:"user_agent"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	MaxReadRetries        int    `mapstructure:"max_read_retries"`
	ScriptListPath        string `mapstructure:"script_list_path"`
	SettingsPath          string `mapstructure:"settings_path"`
	SessionMarker         string `mapstructure:"session_marker"`
}

func (p *PlatformConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

// ProberConfig controls the session health prober schedule and pacing.
type ProberConfig struct {
	IntervalMinutes      int `mapstructure:"interval_minutes"`
	DelaySeconds         int `mapstructure:"delay_seconds"`
	RevalidateAfterHours int `mapstructure:"revalidate_after_hours"`
	RunTimeoutMinutes    int `mapstructure:"run_timeout_minutes"`
}

func (p *ProberConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMinutes) * time.Minute
}

func (p *ProberConfig) Delay() time.Duration {
	return time.Duration(p.DelaySeconds) * time.Second
}

func (p *ProberConfig) RevalidateAfter() time.Duration {
	return time.Duration(p.RevalidateAfterHours) * time.Hour
}

func (p *ProberConfig) RunTimeout() time.Duration {
	return time.Duration(p.RunTimeoutMinutes) * time.Minute
}

type GrantsConfig struct {
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds"`
}

func (g *GrantsConfig) LockTTL() time.Duration {
	return time.Duration(g.LockTTLSeconds) * time.Second
}

type AuthConfig struct {
	ServiceSecret string `mapstructure:"service_secret"`
	Issuer        string `mapstructure:"issuer"`
}
