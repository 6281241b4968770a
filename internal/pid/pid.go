package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/raplmon/internal/errors"
)

const pidFile = "raplmon.pid"

func path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write claims the PID file for the current process. If the file names
// a live process the error carries that PID; a stale or unparseable
// file is overwritten.
func Write() error {
	errFactory := errors.New()
	pidPath := path()

	raw, err := os.ReadFile(pidPath)
	switch {
	case err == nil:
		if owner, parseErr := strconv.Atoi(strings.TrimSpace(string(raw))); parseErr == nil {
			if isAlive(owner) {
				return errFactory.WithData(errors.ErrAlreadyRunning, owner)
			}
		}
	case !os.IsNotExist(err):
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// isAlive reports whether a process with the given PID exists. On
// Linux FindProcess always succeeds, so signal 0 does the real check.
func isAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}

// Remove removes the PID file.
func Remove() error {
	errFactory := errors.New()

	if err := os.Remove(path()); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
