package sweep

import (
	"path/filepath"
	"testing"
	"time"

	"glowup/server/internal/model"
	"glowup/server/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestStore(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	// Raw handle for backdating rows under the store's nose.
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	return st, db
}

func TestRunFlagsStuckVideos(t *testing.T) {
	st, db := openTestStore(t)
	now := time.Now().UTC()

	stuck, err := st.CreateVideo(model.Video{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Title:     "stuck",
		Status:    model.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	fresh, err := st.CreateVideo(model.Video{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Title:     "fresh",
		Status:    model.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}

	err = db.Model(&model.Video{}).Where("id = ?", stuck.ID).
		UpdateColumn("updated_at", now.Add(-time.Hour)).Error
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	svc := NewService(st, zap.NewNop(), "@every 1m", 30*time.Minute)
	svc.Run()

	got, err := st.GetVideo(stuck.ID)
	if err != nil {
		t.Fatalf("get stuck video: %v", err)
	}
	if got.Status != model.StatusError {
		t.Fatalf("stuck video status=%s, want error", got.Status)
	}

	got, err = st.GetVideo(fresh.ID)
	if err != nil {
		t.Fatalf("get fresh video: %v", err)
	}
	if got.Status != model.StatusProcessing {
		t.Fatalf("fresh video status=%s, want processing", got.Status)
	}
}

func TestStartAndStop(t *testing.T) {
	st, _ := openTestStore(t)
	svc := NewService(st, zap.NewNop(), "@every 1h", 30*time.Minute)
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.Stop()
	// Stop without Start is a no-op.
	NewService(st, zap.NewNop(), "@every 1h", 30*time.Minute).Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	st, _ := openTestStore(t)
	svc := NewService(st, zap.NewNop(), "not a cron spec", 30*time.Minute)
	if err := svc.Start(); err == nil {
		svc.Stop()
		t.Fatalf("expected error for invalid spec")
	}
}
