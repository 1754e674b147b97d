package environment

import (
	"context"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/backuptools/resticsetup/pkg/provision"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = ioutil.Discard

	return logger
}

func TestSetup_Apply(t *testing.T) {
	paths := provision.DefaultPaths(t.TempDir())

	s := New(discardLogger(), paths, "secret", []string{"*.tmp", "node_modules"})

	err := s.Apply(context.Background())

	assert.Nil(t, err)
	assert.DirExists(t, paths.ResticDir)
	assert.DirExists(t, paths.BinDir)

	password, err := os.ReadFile(paths.PasswordFile)
	assert.Nil(t, err)
	assert.Equal(t, "secret", string(password))

	excludes, err := os.ReadFile(paths.ExcludeFile)
	assert.Nil(t, err)
	assert.Equal(t, "*.tmp\nnode_modules", string(excludes))
}

func TestSetup_Apply_PasswordFilePermissions(t *testing.T) {
	paths := provision.DefaultPaths(t.TempDir())

	s := New(discardLogger(), paths, "secret", []string{"*.tmp"})

	err := s.Apply(context.Background())

	assert.Nil(t, err)

	info, err := os.Stat(paths.PasswordFile)
	assert.Nil(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSetup_Apply_RestrictsExistingPasswordFile(t *testing.T) {
	paths := provision.DefaultPaths(t.TempDir())

	assert.Nil(t, os.MkdirAll(paths.ResticDir, 0755))
	assert.Nil(t, os.WriteFile(paths.PasswordFile, []byte("old"), 0644))

	s := New(discardLogger(), paths, "secret", []string{"*.tmp"})

	err := s.Apply(context.Background())

	assert.Nil(t, err)

	info, err := os.Stat(paths.PasswordFile)
	assert.Nil(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	password, err := os.ReadFile(paths.PasswordFile)
	assert.Nil(t, err)
	assert.Equal(t, "secret", string(password))
}

func TestSetup_Apply_AppendsPathExportOnce(t *testing.T) {
	paths := provision.DefaultPaths(t.TempDir())

	assert.Nil(t, os.WriteFile(paths.Bashrc, []byte("# .bashrc\n"), 0644))

	s := New(discardLogger(), paths, "secret", []string{"*.tmp"})

	assert.Nil(t, s.Apply(context.Background()))
	assert.Nil(t, s.Apply(context.Background()))

	content, err := os.ReadFile(paths.Bashrc)
	assert.Nil(t, err)
	assert.Equal(t, 1, strings.Count(string(content), pathExportLine))
}

func TestSetup_Apply_SkipsPathExportOnLooseMatch(t *testing.T) {
	paths := provision.DefaultPaths(t.TempDir())

	existing := "PATH=$HOME/bin:$PATH\n"
	assert.Nil(t, os.WriteFile(paths.Bashrc, []byte(existing), 0644))

	s := New(discardLogger(), paths, "secret", []string{"*.tmp"})

	assert.Nil(t, s.Apply(context.Background()))

	content, err := os.ReadFile(paths.Bashrc)
	assert.Nil(t, err)
	assert.Equal(t, existing, string(content))
}

func TestSetup_Apply_NoStartupFile(t *testing.T) {
	paths := provision.DefaultPaths(t.TempDir())

	s := New(discardLogger(), paths, "secret", []string{"*.tmp"})

	assert.Nil(t, s.Apply(context.Background()))

	_, err := os.Stat(paths.Bashrc)
	assert.True(t, os.IsNotExist(err))
}
