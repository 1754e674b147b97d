package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Repository:     "/mnt/backup/repo",
		BackupPassword: "secret",
		ExcludePaths:   []string{"*.tmp"},
		SourcePaths: map[string]string{
			"db":  "/var/lib/db",
			"web": "/srv/web",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := validConfig()

	assert.Nil(t, cfg.Validate())
}

func TestConfig_Validate_MissingPassword(t *testing.T) {
	cfg := validConfig()
	cfg.BackupPassword = ""

	err := cfg.Validate()

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "backup_password")
}

func TestConfig_Validate_MissingExcludePaths(t *testing.T) {
	cfg := validConfig()
	cfg.ExcludePaths = nil

	err := cfg.Validate()

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "exclude_paths")
}

func TestConfig_Validate_MissingRepository(t *testing.T) {
	cfg := validConfig()
	cfg.Repository = ""

	err := cfg.Validate()

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "repository")
}

func TestConfig_Validate_MissingSourcePaths(t *testing.T) {
	cfg := validConfig()
	cfg.SourcePaths = nil

	err := cfg.Validate()

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "source_paths")
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := validConfig()

	cfg.ApplyDefaults()

	assert.Equal(t, DefaultResticVersion, cfg.ResticVersion)
	assert.Equal(t, DefaultCronSchedule, cfg.CronSchedule)
}

func TestConfig_ApplyDefaults_DoesNotOverride(t *testing.T) {
	cfg := validConfig()
	cfg.ResticVersion = "0.17.0"
	cfg.CronSchedule = "30 3 * * *"

	cfg.ApplyDefaults()

	assert.Equal(t, "0.17.0", cfg.ResticVersion)
	assert.Equal(t, "30 3 * * *", cfg.CronSchedule)
}
