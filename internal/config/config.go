// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Database types
const (
	SQLiteDatabase = "sqlite"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// File paths
	DatabasePath string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseType         string `mapstructure:"dbtype"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`

	// Metrics engine settings
	SnapshotTimeSeriesDays int `mapstructure:"snapshottimeseriesdays"`
	BehaviorActivityLimit  int `mapstructure:"behavioractivitylimit"`
	MetricsWorkerCount     int `mapstructure:"metricsworkercount"`

	// Report settings
	WeeklyReportCron string `mapstructure:"weeklyreportcron"`
	RankingLimit     int    `mapstructure:"rankinglimit"`

	// Data retention settings
	ActivityRetentionDays int `mapstructure:"activityretentiondays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "showroom")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("storagepath", "storage")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbtype", SQLiteDatabase)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("snapshottimeseriesdays", 30)
		v.SetDefault("behavioractivitylimit", 100)
		v.SetDefault("metricsworkercount", 12)
		v.SetDefault("weeklyreportcron", "0 8 * * 1")
		v.SetDefault("rankinglimit", 10)
		v.SetDefault("activityretentiondays", 365)

		// Bind environment variables
		v.BindEnv("appname", "SHOWROOM_APP_NAME")
		v.BindEnv("appport", "SHOWROOM_APP_PORT")
		v.BindEnv("environment", "SHOWROOM_ENV")
		v.BindEnv("loglevel", "SHOWROOM_LOG_LEVEL")
		v.BindEnv("storagepath", "SHOWROOM_STORAGE_PATH")
		v.BindEnv("logsdir", "SHOWROOM_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "SHOWROOM_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "SHOWROOM_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "SHOWROOM_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbtype", "SHOWROOM_DB_TYPE")
		v.BindEnv("dbmaxopenconns", "SHOWROOM_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "SHOWROOM_DB_MAX_IDLE_CONNS")
		v.BindEnv("snapshottimeseriesdays", "SHOWROOM_SNAPSHOT_TIME_SERIES_DAYS")
		v.BindEnv("behavioractivitylimit", "SHOWROOM_BEHAVIOR_ACTIVITY_LIMIT")
		v.BindEnv("metricsworkercount", "SHOWROOM_METRICS_WORKER_COUNT")
		v.BindEnv("weeklyreportcron", "SHOWROOM_WEEKLY_REPORT_CRON")
		v.BindEnv("rankinglimit", "SHOWROOM_RANKING_LIMIT")
		v.BindEnv("activityretentiondays", "SHOWROOM_ACTIVITY_RETENTION_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validDBTypes := map[string]bool{
		SQLiteDatabase: true,
	}
	if !validDBTypes[c.DatabaseType] {
		return fmt.Errorf("invalid database type: %s", c.DatabaseType)
	}

	if c.SnapshotTimeSeriesDays <= 0 {
		return fmt.Errorf("snapshot time series days must be positive, got %d", c.SnapshotTimeSeriesDays)
	}
	if c.BehaviorActivityLimit <= 0 {
		return fmt.Errorf("behavior activity limit must be positive, got %d", c.BehaviorActivityLimit)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1 (required for test stability with shared in-memory databases)
// - Development/Production: 10 (allows concurrent reads for parallel metric queries)
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
