package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/termplay/playbackctl/internal/errors"
	"github.com/termplay/playbackctl/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing telemetry repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO playback_telemetry (
            timestamp, capability,
            target_fps, current_fps, actual_fps, advised_fps,
            smoothness, skip_ratio,
            frames_rendered, skipped_frames,
            cpu_percent, memory_percent, optimized
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            capability = excluded.capability,
            target_fps = excluded.target_fps,
            current_fps = excluded.current_fps,
            actual_fps = excluded.actual_fps,
            advised_fps = excluded.advised_fps,
            smoothness = excluded.smoothness,
            skip_ratio = excluded.skip_ratio,
            frames_rendered = excluded.frames_rendered,
            skipped_frames = excluded.skipped_frames,
            cpu_percent = excluded.cpu_percent,
            memory_percent = excluded.memory_percent,
            optimized = excluded.optimized
    `,
		snapshot.Timestamp.Unix(),
		snapshot.Capability,
		snapshot.TargetFPS,
		snapshot.CurrentFPS,
		snapshot.ActualFPS,
		snapshot.AdvisedFPS,
		snapshot.Smoothness,
		snapshot.SkipRatio,
		int64(snapshot.FramesRendered),
		int64(snapshot.SkippedFrames),
		snapshot.CPUPercent,
		snapshot.MemoryPercent,
		boolToInt(snapshot.Optimized),
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
