package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"glowup/server/internal/events"
	"glowup/server/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Store is the video record store. Every video row mutation publishes a
// VideoUpdate to the hub so dashboards see changes without polling.
type Store struct {
	db  *gorm.DB
	hub *events.Hub
}

func Open(path string, hub *events.Hub) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time; a single pooled connection turns
	// concurrent writes into queued ones instead of SQLITE_BUSY errors.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Video{},
		&model.ViewEvent{},
	); err != nil {
		return nil, err
	}
	return &Store{db: db, hub: hub}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notify re-reads the row and fans the update out to the owner's subscribers.
func (s *Store) notify(videoID string, oldStatus model.VideoStatus) {
	if s.hub == nil {
		return
	}
	after, err := s.GetVideo(videoID)
	if err != nil {
		return
	}
	s.hub.Publish(after.UserID, model.VideoUpdate{OldStatus: oldStatus, Video: after})
}
