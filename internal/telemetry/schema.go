package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/raplmon/internal/errors"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
        CREATE TABLE IF NOT EXISTS schema_versions (
            version     INTEGER PRIMARY KEY,
            applied_at  TEXT NOT NULL
        );
        CREATE TABLE IF NOT EXISTS samples (
            timestamp       INTEGER NOT NULL,
            domain          TEXT NOT NULL,
            power_w         REAL NOT NULL,
            average_power_w REAL NOT NULL,
            energy_wh       REAL NOT NULL,
            peak_power_w    REAL NOT NULL,
            PRIMARY KEY (timestamp, domain)
        );`

	insertSampleSQL = `
        INSERT INTO samples (
            timestamp, domain,
            power_w, average_power_w, energy_wh, peak_power_w
        ) VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp, domain) DO UPDATE SET
            power_w = excluded.power_w,
            average_power_w = excluded.average_power_w,
            energy_wh = excluded.energy_wh,
            peak_power_w = excluded.peak_power_w`
)

// initSchema creates the sample tables and records the schema version
// on a fresh database.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	if _, err := db.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := db.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
        ON CONFLICT(version) DO NOTHING
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	return nil
}
