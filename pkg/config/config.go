package config

import (
	"github.com/pkg/errors"
)

const (
	DefaultResticVersion = "0.18.1"
	DefaultCronSchedule  = "0 12 * * *"
)

// Config is the flat provisioning record loaded once at startup and shared
// by every stage.
type Config struct {
	ResticVersion  string            `mapstructure:"restic_version"`
	Repository     string            `mapstructure:"repository"`
	BackupPassword string            `mapstructure:"backup_password"`
	ExcludePaths   []string          `mapstructure:"exclude_paths"`
	SourcePaths    map[string]string `mapstructure:"source_paths"`
	HealthcheckURL string            `mapstructure:"healthcheck_url"`
	CronSchedule   string            `mapstructure:"cron_schedule"`
	DatabasePath   string            `mapstructure:"database_path"`
}

func (c *Config) ApplyDefaults() {
	if c.ResticVersion == "" {
		c.ResticVersion = DefaultResticVersion
	}

	if c.CronSchedule == "" {
		c.CronSchedule = DefaultCronSchedule
	}
}

// Validate checks for key presence only. Values are handed through to the
// stages verbatim.
func (c *Config) Validate() error {
	if c.BackupPassword == "" {
		return errors.New("required key 'backup_password' is missing")
	}

	if len(c.ExcludePaths) == 0 {
		return errors.New("required key 'exclude_paths' is missing")
	}

	if c.Repository == "" {
		return errors.New("required key 'repository' is missing")
	}

	if len(c.SourcePaths) == 0 {
		return errors.New("required key 'source_paths' is missing")
	}

	return nil
}
