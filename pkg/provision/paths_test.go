package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths("/home/user")

	assert.Equal(t, "/home/user/.restic", paths.ResticDir)
	assert.Equal(t, "/home/user/bin", paths.BinDir)
	assert.Equal(t, "/home/user/.restic/.restic_passwd", paths.PasswordFile)
	assert.Equal(t, "/home/user/.restic/.restic_exclude", paths.ExcludeFile)
	assert.Equal(t, "/home/user/bin/restic-custom-backup", paths.ScriptPath)
	assert.Equal(t, "/usr/local/bin/restic", paths.ResticBinary)
	assert.Equal(t, "/home/user/.bashrc", paths.Bashrc)
	assert.Equal(t, "/tmp/restic-backup.log", paths.LogFile)
	assert.Equal(t, "/home/user/.restic/setup.db", paths.DatabaseFile)
}
