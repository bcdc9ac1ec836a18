package telemetry

import (
	"database/sql"

	"github.com/termplay/playbackctl/internal/errors"
)

// initSchema initializes the database schema for telemetry data
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS playback_telemetry (
            timestamp INTEGER PRIMARY KEY,
            capability TEXT,
            target_fps REAL,
            current_fps REAL,
            actual_fps REAL,
            advised_fps REAL,
            smoothness REAL,
            skip_ratio REAL,
            frames_rendered INTEGER,
            skipped_frames INTEGER,
            cpu_percent REAL,
            memory_percent REAL,
            optimized INTEGER
        )
    `)
	if err != nil {
		return errors.New().Wrap(errors.ErrInitTelemetry, err)
	}

	return nil
}
