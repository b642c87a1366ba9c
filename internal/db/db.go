package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AyloRyd/taskhub/internal/models"
)

// Store is the local state database
type Store struct {
	gdb *gorm.DB
}

// Options tweak how the database is opened
type Options struct {
	// Verbose turns on gorm SQL logging
	Verbose bool
}

// Open sets up the database connection and runs migrations
func Open(dbPath string, opts Options) (*Store, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create taskhub directory: %w", err)
	}

	logMode := logger.Silent // Quiet by default
	if opts.Verbose {
		logMode = logger.Info
	}

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{gdb: gdb}
	if err := s.runMigrations(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// DatabasePath returns the path to the SQLite database file inside dataDir
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, "taskhub.db")
}

// runMigrations creates/updates the database schema
func (s *Store) runMigrations() error {
	return s.gdb.AutoMigrate(
		&models.StoredValue{},
	)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.gdb == nil {
		return nil
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
