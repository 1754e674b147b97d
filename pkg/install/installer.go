package install

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/backuptools/resticsetup/pkg/execx"
	"github.com/backuptools/resticsetup/pkg/provision"
)

const (
	binaryName = "restic"

	defaultBaseURL = "https://github.com/restic/restic/releases/download"

	// release asset for the fixed platform this tool provisions
	assetFormat = "restic_%s_linux_amd64.bz2"
)

// Installer ensures the restic binary is present at the system-wide install
// path. Installation is a one-shot action: any failure aborts the whole run
// and reruns are expected to be manual.
type Installer struct {
	logger logrus.FieldLogger

	client *http.Client
	run    execx.Runner
	paths  *provision.Paths

	baseURL  string
	lookPath func(file string) (string, error)
}

func New(logger logrus.FieldLogger, client *http.Client, run execx.Runner, paths *provision.Paths) *Installer {
	return &Installer{
		logger: logger,

		client: client,
		run:    run,
		paths:  paths,

		baseURL:  defaultBaseURL,
		lookPath: exec.LookPath,
	}
}

func (i *Installer) EnsureInstalled(ctx context.Context, version string) error {
	if path, err := i.lookPath(binaryName); err == nil {
		i.logger.WithField("path", path).Info("restic is already installed")
		return nil
	}

	i.logger.WithField("version", version).Info("Installing restic")

	archive := filepath.Join(i.paths.TempDir, "restic.bz2")

	// the archive may exist partially written when the download fails
	defer func() {
		if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
			i.logger.WithError(err).Warn("Unable to remove temporary archive")
		}
	}()

	if err := i.download(ctx, i.downloadURL(version), archive); err != nil {
		return errors.Wrap(err, "unable to download restic release")
	}

	binary := filepath.Join(i.paths.TempDir, binaryName)

	if err := decompress(archive, binary); err != nil {
		return errors.Wrap(err, "unable to decompress restic release")
	}

	if err := os.Chmod(binary, 0755); err != nil {
		return errors.Wrap(err, "unable to mark restic binary executable")
	}

	i.logger.WithField("path", i.paths.ResticBinary).Info("Installing restic binary (requires sudo)")

	if err := i.run.Run(ctx, "sudo", "mv", binary, i.paths.ResticBinary); err != nil {
		return errors.Wrap(err, "unable to move restic binary into place")
	}

	if err := i.run.Run(ctx, "sudo", "chown", "root:root", i.paths.ResticBinary); err != nil {
		return errors.Wrap(err, "unable to set restic binary ownership")
	}

	return nil
}

func (i *Installer) download(ctx context.Context, url, target string) error {
	i.logger.WithField("url", url).Info("Downloading restic release")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status '%s'", resp.Status)
	}

	f, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func decompress(archive, target string) error {
	source, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer source.Close()

	dest, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dest, bzip2.NewReader(source)); err != nil {
		dest.Close()
		return err
	}

	return dest.Close()
}

func (i *Installer) downloadURL(version string) string {
	return fmt.Sprintf("%s/v%s/%s", i.baseURL, version, fmt.Sprintf(assetFormat, version))
}
