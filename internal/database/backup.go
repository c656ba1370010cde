package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"villetta/internal/config"
)

// BackupService periodically snapshots the sqlite database. Snapshots are
// taken with VACUUM INTO so they are consistent even under WAL mode.
type BackupService struct {
	db  *DB
	cfg config.BackupConfig
}

func NewBackupService(db *DB, cfg config.BackupConfig) *BackupService {
	if cfg.StoragePath == "" {
		cfg.StoragePath = "data/backups"
	}
	return &BackupService{db: db, cfg: cfg}
}

// Run takes an initial snapshot and then one per interval until ctx is
// cancelled. Failures are logged, never fatal.
func (s *BackupService) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}
	s.db.logger.Info().
		Str("path", s.cfg.StoragePath).
		Dur("interval", s.cfg.Interval()).
		Msg("backup service started")

	ticker := time.NewTicker(s.cfg.Interval())
	defer ticker.Stop()

	if err := s.Snapshot(ctx); err != nil {
		s.db.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(ctx); err != nil {
				s.db.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.pruneOld()
		}
	}
}

// Snapshot writes a timestamped copy of the database into the storage path.
func (s *BackupService) Snapshot(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("villetta_%s.db", time.Now().UTC().Format("20060102_150405"))
	target := filepath.Join(s.cfg.StoragePath, name)

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		return fmt.Errorf("vacuum into %s: %w", target, err)
	}

	s.db.logger.Info().Str("file", name).Msg("backup completed")
	return nil
}

func (s *BackupService) pruneOld() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.db.logger.Error().Err(err).Msg("failed to read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.db.logger.Info().Str("file", entry.Name()).Msg("deleting expired backup")
			_ = os.Remove(filepath.Join(s.cfg.StoragePath, entry.Name()))
		}
	}
}
