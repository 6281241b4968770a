package rapl

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/raplmon/internal/domain"
	"codeberg.org/mutker/raplmon/internal/errors"
	"codeberg.org/mutker/raplmon/internal/logger"
)

// DefaultBasePath is where the kernel powercap framework exposes RAPL
// domains.
const DefaultBasePath = "/sys/class/powercap"

const domainPrefix = "intel-rapl:"

// Discover enumerates the RAPL domains under basePath and constructs
// one tracker per usable domain. A domain whose metadata cannot be
// read is logged and skipped so one malformed entry does not abort the
// rest; finding no usable domain at all is an error.
func Discover(basePath string) ([]*domain.Tracker, error) {
	errFactory := errors.New()

	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, errFactory.Wrap(ErrDiscoveryFailed, err)
	}

	var trackers []*domain.Tracker
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), domainPrefix) {
			continue
		}

		path := filepath.Join(basePath, entry.Name())
		if !isDomainDir(path) {
			continue
		}

		tracker, err := domain.NewTracker(NewSysfsReader(path))
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable domain")
			continue
		}

		logger.Debug().Str("domain", tracker.Name()).Msg("Discovered domain")
		trackers = append(trackers, tracker)
	}

	if len(trackers) == 0 {
		return nil, errFactory.WithData(ErrNoDomains, basePath)
	}

	return trackers, nil
}

// isDomainDir reports whether path is a directory exposing both the
// name and energy counter attributes. Powercap entries are symlinks,
// so checks go through os.Stat.
func isDomainDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	for _, attr := range []string{nameFile, counterFile} {
		if _, err := os.Stat(filepath.Join(path, attr)); err != nil {
			return false
		}
	}

	return true
}
