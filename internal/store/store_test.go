package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"glowup/server/internal/events"
	"glowup/server/internal/model"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T, hub *events.Hub) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"), hub)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedVideo(t *testing.T, st *Store, userID string, status model.VideoStatus) model.Video {
	t.Helper()
	now := time.Now().UTC()
	v, err := st.CreateVideo(model.Video{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "clip",
		Status:      status,
		Effect:      model.EffectEnhance,
		OriginalURL: "https://cdn.example.com/raw.mp4",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	return v
}

func TestGetVideoNotFound(t *testing.T) {
	st := openTestStore(t, nil)
	if _, err := st.GetVideo(uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetVideoStatusMissingRowIsNotAnError(t *testing.T) {
	st := openTestStore(t, nil)
	if err := st.SetVideoStatus(uuid.NewString(), model.StatusProcessing); err != nil {
		t.Fatalf("blind update on missing row: %v", err)
	}
}

func TestCompleteVideoWritesOutputs(t *testing.T) {
	st := openTestStore(t, nil)
	v := seedVideo(t, st, uuid.NewString(), model.StatusProcessing)

	if err := st.CompleteVideo(v.ID, v.OriginalURL, v.OriginalURL, model.EffectVintage); err != nil {
		t.Fatalf("complete video: %v", err)
	}
	got, err := st.GetVideo(v.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("status=%s, want completed", got.Status)
	}
	if got.ProcessedURL != v.OriginalURL || got.ThumbnailURL != v.OriginalURL {
		t.Fatalf("output urls not set: %+v", got)
	}
	if got.Effect != model.EffectVintage {
		t.Fatalf("effect=%s, want vintage", got.Effect)
	}
}

func TestIncrementViewCount(t *testing.T) {
	st := openTestStore(t, nil)
	v := seedVideo(t, st, uuid.NewString(), model.StatusCompleted)

	for i := 0; i < 3; i++ {
		if err := st.IncrementViewCount(v.ID); err != nil {
			t.Fatalf("increment #%d: %v", i+1, err)
		}
	}
	got, err := st.GetVideo(v.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if got.ViewCount != 3 {
		t.Fatalf("view_count=%d, want 3", got.ViewCount)
	}

	if err := st.IncrementViewCount(uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("increment missing row: expected ErrNotFound, got %v", err)
	}
}

func TestStatusWritePublishesUpdate(t *testing.T) {
	hub := events.NewHub()
	st := openTestStore(t, hub)

	userID := uuid.NewString()
	v := seedVideo(t, st, userID, model.StatusProcessing)

	_, ch, unsubscribe := hub.Subscribe(userID, 8)
	defer unsubscribe()

	if err := st.CompleteVideo(v.ID, v.OriginalURL, v.OriginalURL, v.Effect); err != nil {
		t.Fatalf("complete video: %v", err)
	}

	select {
	case upd := <-ch:
		if upd.OldStatus != model.StatusProcessing {
			t.Fatalf("old_status=%s, want processing", upd.OldStatus)
		}
		if upd.Video.Status != model.StatusCompleted {
			t.Fatalf("status=%s, want completed", upd.Video.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no update published")
	}
}

func TestListVideosByUserNewestFirst(t *testing.T) {
	st := openTestStore(t, nil)
	userID := uuid.NewString()

	older, err := st.CreateVideo(model.Video{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "older",
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		UpdatedAt: time.Now().UTC().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create older: %v", err)
	}
	newer := seedVideo(t, st, userID, model.StatusPending)
	seedVideo(t, st, uuid.NewString(), model.StatusPending) // someone else's

	items, err := st.ListVideosByUser(userID)
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d, want 2", len(items))
	}
	if items[0].ID != newer.ID || items[1].ID != older.ID {
		t.Fatalf("wrong order: %s, %s", items[0].Title, items[1].Title)
	}
}

func TestListStaleProcessing(t *testing.T) {
	st := openTestStore(t, nil)
	userID := uuid.NewString()

	stuck := seedVideo(t, st, userID, model.StatusProcessing)
	// Backdate the row past the cutoff.
	err := st.db.Model(&model.Video{}).Where("id = ?", stuck.ID).
		UpdateColumn("updated_at", time.Now().UTC().Add(-time.Hour)).Error
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}
	seedVideo(t, st, userID, model.StatusProcessing) // fresh, should not match
	seedVideo(t, st, userID, model.StatusCompleted)

	got, err := st.ListStaleProcessing(time.Now().UTC().Add(-30 * time.Minute))
	if err != nil {
		t.Fatalf("list stale: %v", err)
	}
	if len(got) != 1 || got[0].ID != stuck.ID {
		t.Fatalf("stale rows=%d, want the backdated one", len(got))
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := openTestStore(t, nil)
	now := time.Now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Email:        "dup@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := st.CreateUser(u); err != nil {
		t.Fatalf("first create: %v", err)
	}
	u.ID = uuid.NewString()
	u.Email = "DUP@example.com"
	if _, err := st.CreateUser(u); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCountVideosByStatus(t *testing.T) {
	st := openTestStore(t, nil)
	userID := uuid.NewString()
	seedVideo(t, st, userID, model.StatusPending)
	seedVideo(t, st, userID, model.StatusPending)
	seedVideo(t, st, userID, model.StatusCompleted)

	counts, err := st.CountVideosByStatus()
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts[model.StatusPending] != 2 || counts[model.StatusCompleted] != 1 {
		t.Fatalf("counts=%v", counts)
	}
}
