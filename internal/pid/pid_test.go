package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/raplmon/internal/errors"
	"codeberg.org/mutker/raplmon/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate redirects os.TempDir so tests never touch a real PID file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	return filepath.Join(dir, "raplmon.pid")
}

func TestWriteAndRemove(t *testing.T) {
	path := isolate(t)

	require.NoError(t, pid.Write())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(raw))

	require.NoError(t, pid.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing an absent file is not an error.
	assert.NoError(t, pid.Remove())
}

func TestWriteRefusesLiveProcess(t *testing.T) {
	isolate(t)

	require.NoError(t, pid.Write())

	err := pid.Write()
	require.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyRunning, errors.CodeOf(err))

	// The error names the process holding the file.
	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, os.Getpid(), appErr.GetData())
}

func TestWriteReclaimsUnparseableFile(t *testing.T) {
	path := isolate(t)

	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0o600))

	require.NoError(t, pid.Write())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(raw))
}
