package environment

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/backuptools/resticsetup/pkg/provision"
)

const (
	pathExportLine = "export PATH=$PATH:$HOME/bin"

	// looser marker used for the idempotence check: any mention of the bin
	// directory counts as "already on PATH"
	pathMarker = "$HOME/bin"
)

// Setup prepares the directories and configuration artifacts the generated
// backup script relies on. Every step overwrites fully, so reruns converge
// on the same state.
type Setup struct {
	logger logrus.FieldLogger

	paths *provision.Paths

	password string
	excludes []string
}

func New(logger logrus.FieldLogger, paths *provision.Paths, password string, excludes []string) *Setup {
	return &Setup{
		logger: logger,

		paths: paths,

		password: password,
		excludes: excludes,
	}
}

func (s *Setup) Apply(ctx context.Context) error {
	s.logger.Info("Setting up directories and configuration files")

	for _, dir := range []string{s.paths.ResticDir, s.paths.BinDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "unable to create directory '%s'", dir)
		}
	}

	if err := s.writePasswordFile(); err != nil {
		return err
	}

	if err := s.writeExcludeFile(); err != nil {
		return err
	}

	return s.ensurePathExport()
}

func (s *Setup) writePasswordFile() error {
	if err := os.WriteFile(s.paths.PasswordFile, []byte(s.password), 0600); err != nil {
		return errors.Wrap(err, "unable to write password file")
	}

	// WriteFile only applies the mode on creation, an existing file keeps
	// its old permissions
	if err := os.Chmod(s.paths.PasswordFile, 0600); err != nil {
		return errors.Wrap(err, "unable to restrict password file permissions")
	}

	return nil
}

func (s *Setup) writeExcludeFile() error {
	content := strings.Join(s.excludes, "\n")

	if err := os.WriteFile(s.paths.ExcludeFile, []byte(content), 0644); err != nil {
		return errors.Wrap(err, "unable to write exclude file")
	}

	return nil
}

func (s *Setup) ensurePathExport() error {
	content, err := os.ReadFile(s.paths.Bashrc)
	if os.IsNotExist(err) {
		s.logger.WithField("path", s.paths.Bashrc).Debug("No shell startup file, skipping PATH export")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "unable to read shell startup file")
	}

	if strings.Contains(string(content), pathExportLine) || strings.Contains(string(content), pathMarker) {
		return nil
	}

	s.logger.WithField("path", s.paths.Bashrc).Info("Adding bin directory to PATH")

	f, err := os.OpenFile(s.paths.Bashrc, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "unable to open shell startup file")
	}

	if _, err := f.WriteString("\n" + pathExportLine + "\n"); err != nil {
		f.Close()
		return errors.Wrap(err, "unable to append PATH export")
	}

	return f.Close()
}
