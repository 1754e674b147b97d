package provisionfx

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/backuptools/resticsetup/pkg/config"
)

func validViper() *viper.Viper {
	v := viper.New()

	v.Set("repository", "/mnt/backup/repo")
	v.Set("backup_password", "secret")
	v.Set("exclude_paths", []string{"*.tmp"})
	v.Set("source_paths", map[string]string{"db": "/var/lib/db"})

	return v
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(validViper())

	assert.Nil(t, err)
	assert.Equal(t, "/mnt/backup/repo", cfg.Repository)
	assert.Equal(t, config.DefaultResticVersion, cfg.ResticVersion)
	assert.Equal(t, config.DefaultCronSchedule, cfg.CronSchedule)
	assert.Equal(t, map[string]string{"db": "/var/lib/db"}, cfg.SourcePaths)
}

func TestLoadConfig_MissingRepository(t *testing.T) {
	v := validViper()
	v.Set("repository", "")

	cfg, err := LoadConfig(v)

	assert.Nil(t, cfg)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "repository")
}

func TestLoadConfig_EmptyViper(t *testing.T) {
	cfg, err := LoadConfig(viper.New())

	assert.Nil(t, cfg)
	assert.NotNil(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	v := validViper()
	v.Set("restic_version", "0.17.0")
	v.Set("cron_schedule", "30 3 * * *")
	v.Set("healthcheck_url", "https://hc.example.com/ping")
	v.Set("database_path", "/var/lib/resticsetup/setup.db")

	cfg, err := LoadConfig(v)

	assert.Nil(t, err)
	assert.Equal(t, "0.17.0", cfg.ResticVersion)
	assert.Equal(t, "30 3 * * *", cfg.CronSchedule)
	assert.Equal(t, "https://hc.example.com/ping", cfg.HealthcheckURL)
	assert.Equal(t, "/var/lib/resticsetup/setup.db", cfg.DatabasePath)
}
