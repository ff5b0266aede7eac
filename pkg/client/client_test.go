package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"glowup/server/internal/analytics"
	"glowup/server/internal/api"
	"glowup/server/internal/auth"
	"glowup/server/internal/events"
	"glowup/server/internal/model"
	"glowup/server/internal/processing"
	"glowup/server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := events.NewHub()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), hub)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authSvc := auth.NewService(st, "test-secret", 15*time.Minute, 24*time.Hour)
	processingSvc := processing.NewService(st, processing.NewStubEngine(30*time.Millisecond), zap.NewNop())
	analyticsSvc := analytics.NewService(st, zap.NewNop())

	srv := httptest.NewServer(api.NewServer(authSvc, st, processingSvc, analyticsSvc, hub, zap.NewNop(), time.Second).Router())
	t.Cleanup(srv.Close)
	return srv, st
}

func seedVideo(t *testing.T, st *store.Store, status model.VideoStatus) model.Video {
	t.Helper()
	now := time.Now().UTC()
	v, err := st.CreateVideo(model.Video{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
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

func TestProcessVideoAndRecordView(t *testing.T) {
	srv, st := setupServer(t)
	c := New(srv.URL)
	defer c.Close()

	v := seedVideo(t, st, model.StatusPending)
	ctx := context.Background()

	if err := c.ProcessVideo(ctx, v.ID, model.EffectPortrait); err != nil {
		t.Fatalf("process video: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got, err := st.GetVideo(v.ID)
		if err != nil {
			t.Fatalf("get video: %v", err)
		}
		if got.Status == model.StatusCompleted {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := c.RecordView(ctx, v.ID); err != nil {
		t.Fatalf("record view: %v", err)
	}
	got, err := st.GetVideo(v.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("view_count=%d, want 1", got.ViewCount)
	}
}

func TestProcessVideoEmptyIDSurfacesServerError(t *testing.T) {
	srv, _ := setupServer(t)
	c := New(srv.URL)
	defer c.Close()

	if err := c.ProcessVideo(context.Background(), "", model.EffectEnhance); err == nil {
		t.Fatalf("expected error for empty video id")
	}
}
