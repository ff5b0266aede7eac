package analytics

import (
	"errors"
	"time"

	"glowup/server/internal/model"
	"glowup/server/internal/store"
	"glowup/server/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrMissingVideoID = errors.New("video id is required")

// Service is the view recorder: one analytics row insert followed by an
// atomic view-count increment. The two writes are independent, so a partial
// failure can leave an event row without a matching count bump (or the
// reverse); nothing reconciles them.
type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{
		store: st,
		log:   logger,
		now:   time.Now,
	}
}

type ViewerMeta struct {
	ClientIP  string
	UserAgent string
	Country   string
}

func (s *Service) RecordView(videoID string, meta ViewerMeta) error {
	if videoID == "" {
		return ErrMissingVideoID
	}
	ev := model.ViewEvent{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		ViewedAt:  s.now().UTC(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Country:   meta.Country,
	}
	if err := s.store.InsertViewEvent(ev); err != nil {
		s.log.Error("insert view event",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
		return err
	}
	if err := s.store.IncrementViewCount(videoID); err != nil {
		s.log.Error("increment view count",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
		return err
	}
	telemetry.ViewsRecorded.Inc()
	return nil
}

// ListViews returns the raw view events for a video, newest first.
func (s *Service) ListViews(videoID string) ([]model.ViewEvent, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	return s.store.ListViewEvents(videoID)
}
