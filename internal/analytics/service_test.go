package analytics

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"glowup/server/internal/model"
	"glowup/server/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, zap.NewNop()), st
}

func seedVideo(t *testing.T, st *store.Store) model.Video {
	t.Helper()
	now := time.Now().UTC()
	v, err := st.CreateVideo(model.Video{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		Title:       "clip",
		Status:      model.StatusCompleted,
		OriginalURL: "https://cdn.example.com/raw.mp4",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	return v
}

func TestRecordViewWritesEventAndBumpsCount(t *testing.T) {
	svc, st := newTestService(t)
	v := seedVideo(t, st)

	meta := ViewerMeta{ClientIP: "203.0.113.7", UserAgent: "test-agent", Country: "DE"}
	for i := 0; i < 4; i++ {
		if err := svc.RecordView(v.ID, meta); err != nil {
			t.Fatalf("record view #%d: %v", i+1, err)
		}
	}

	got, err := st.GetVideo(v.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if got.ViewCount != 4 {
		t.Fatalf("view_count=%d, want 4", got.ViewCount)
	}
	events, err := svc.ListViews(v.ID)
	if err != nil {
		t.Fatalf("list views: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("events=%d, want 4", len(events))
	}
	if events[0].ClientIP != meta.ClientIP || events[0].Country != "DE" {
		t.Fatalf("viewer meta not persisted: %+v", events[0])
	}
}

func TestRecordViewMissingVideoLeavesOrphanEvent(t *testing.T) {
	svc, st := newTestService(t)
	missingID := uuid.NewString()

	// The two writes are independent: the event insert succeeds and only the
	// count bump fails against the missing row.
	err := svc.RecordView(missingID, ViewerMeta{ClientIP: "unknown", UserAgent: "unknown"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	events, err := st.ListViewEvents(missingID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("orphan events=%d, want 1", len(events))
	}
}

func TestRecordViewEmptyID(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.RecordView("", ViewerMeta{}); !errors.Is(err, ErrMissingVideoID) {
		t.Fatalf("expected ErrMissingVideoID, got %v", err)
	}
}

func TestConcurrentRecordViews(t *testing.T) {
	svc, st := newTestService(t)
	v := seedVideo(t, st)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.RecordView(v.ID, ViewerMeta{ClientIP: "unknown", UserAgent: "unknown"})
		}()
	}
	wg.Wait()
	close(errs)

	recorded := 0
	for err := range errs {
		if err == nil {
			recorded++
		}
	}
	got, err := st.GetVideo(v.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	// The increment is atomic inside the database, so every successful call
	// is reflected exactly once.
	if got.ViewCount != int64(recorded) {
		t.Fatalf("view_count=%d, recorded=%d", got.ViewCount, recorded)
	}
}
