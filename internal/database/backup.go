package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prokat/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const backupPrefix = "prokat_"

type BackupService struct {
	db     *DB
	dbPath string
	config config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(db *DB, dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	l := logger.With().Str("component", "backup").Logger()
	return &BackupService{
		db:     db,
		dbPath: dbPath,
		config: cfg,
		logger: &l,
	}
}

// Start runs backups on the cron schedule until ctx is done.
func (s *BackupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Backup service is disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.config.Schedule, func() {
		if _, err := s.PerformBackup(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled backup failed")
			return
		}
		s.CleanupOldBackups()
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.config.Schedule, err)
	}

	s.logger.Info().Str("schedule", s.config.Schedule).Msg("Backup service started")
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// PerformBackup пишет копию БД в storage_path и возвращает путь к ней.
func (s *BackupService) PerformBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.config.StoragePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405.000")
	backupPath := filepath.Join(s.config.StoragePath, backupPrefix+timestamp+".db")

	s.logger.Info().Str("path", backupPath).Msg("Performing database backup using VACUUM INTO")

	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(backupPath, "'", "''"))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		s.logger.Warn().Err(err).Msg("VACUUM INTO failed, falling back to file copy")
		if err := s.performBackupFallback(backupPath); err != nil {
			return "", err
		}
		return backupPath, nil
	}

	s.logger.Info().Msg("Backup completed successfully")
	return backupPath, nil
}

func (s *BackupService) performBackupFallback(backupPath string) error {
	source, err := os.Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destination.Close()

	// io.Copy не атомарен для SQLite, только запасной вариант
	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Msg("Fallback backup completed successfully")
	return nil
}

// CleanupOldBackups удаляет копии старше retention_days.
func (s *BackupService) CleanupOldBackups() int {
	if s.config.RetentionDays <= 0 {
		return 0
	}

	files, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read backup directory for cleanup")
		return 0
	}

	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)

	removed := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), backupPrefix) {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("Deleting old backup")
			if err := os.Remove(filepath.Join(s.config.StoragePath, file.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}
