package rapl

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/raplmon/internal/errors"
)

const (
	nameFile     = "name"
	maxRangeFile = "max_energy_range_uj"
	counterFile  = "energy_uj"
)

// SysfsReader reads one powercap domain directory. It implements
// domain.Reader and holds no state beyond the directory path.
type SysfsReader struct {
	path string
}

func NewSysfsReader(path string) *SysfsReader {
	return &SysfsReader{path: path}
}

// DisplayName combines the domain directory's base name with the
// contents of its name attribute, e.g. "intel-rapl:0/package-0".
func (r *SysfsReader) DisplayName() (string, error) {
	name, err := r.readString(nameFile)
	if err != nil {
		return "", err
	}

	return filepath.Base(r.path) + "/" + name, nil
}

// MaxRange returns the counter's wraparound ceiling in microjoules.
func (r *SysfsReader) MaxRange() (uint64, error) {
	return r.readUint(maxRangeFile)
}

// ReadCounter returns the current energy counter in microjoules. The
// timestamp is taken after the read so elapsed-time figures include
// the read latency.
func (r *SysfsReader) ReadCounter() (uint64, time.Time, error) {
	value, err := r.readUint(counterFile)
	readTime := time.Now()
	if err != nil {
		return 0, time.Time{}, err
	}

	return value, readTime, nil
}

func (r *SysfsReader) readString(attr string) (string, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(filepath.Join(r.path, attr))
	if err != nil {
		return "", errFactory.Wrap(ErrReadFailed, err)
	}

	return strings.TrimSpace(string(raw)), nil
}

func (r *SysfsReader) readUint(attr string) (uint64, error) {
	errFactory := errors.New()

	raw, err := r.readString(attr)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errFactory.WithData(ErrParseFailed, struct {
			Attribute string
			Value     string
		}{
			Attribute: attr,
			Value:     raw,
		})
	}

	return value, nil
}
