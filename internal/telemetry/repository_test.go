package telemetry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/raplmon/internal/telemetry"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDisabledIsNoop(t *testing.T) {
	collector, err := telemetry.NewService(telemetry.Config{Enabled: false})
	require.NoError(t, err)

	require.NoError(t, collector.Record(context.Background(), &telemetry.Sample{Domain: "intel-rapl:0/package-0"}))
	require.NoError(t, collector.Close())
}

func TestServiceRecordRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []*telemetry.Sample{
		{
			Timestamp:     at,
			Domain:        "intel-rapl:0/package-0",
			PowerW:        42.5,
			AveragePowerW: 40.0,
			EnergyWh:      0.011,
			PeakPowerW:    55.0,
		},
		{
			Timestamp:     at,
			Domain:        "intel-rapl:0:0/core",
			PowerW:        12.25,
			AveragePowerW: 11.5,
			EnergyWh:      0.003,
			PeakPowerW:    20.0,
		},
	}

	for _, sample := range samples {
		require.NoError(t, collector.Record(context.Background(), sample))
	}
	require.NoError(t, collector.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count))
	assert.Equal(t, 2, count)

	var power, peak float64
	require.NoError(t, db.QueryRow(
		"SELECT power_w, peak_power_w FROM samples WHERE domain = ?",
		"intel-rapl:0/package-0",
	).Scan(&power, &peak))
	assert.InDelta(t, 42.5, power, 1e-9)
	assert.InDelta(t, 55.0, peak, 1e-9)
}

func TestServiceRecordNilSample(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)
	defer collector.Close()

	require.Error(t, collector.Record(context.Background(), nil))
}

func TestServiceRecordCancelledContext(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)
	defer collector.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = collector.Record(ctx, &telemetry.Sample{Domain: "intel-rapl:0/package-0"})
	require.Error(t, err)
}

func TestNewServiceEnabledWithoutPath(t *testing.T) {
	_, err := telemetry.NewService(telemetry.Config{Enabled: true})
	require.Error(t, err)
}
