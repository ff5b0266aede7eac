package watch

import (
	"errors"
	"sync"

	"glowup/server/internal/events"
	"glowup/server/internal/model"
	"glowup/server/internal/store"

	"go.uber.org/zap"
)

var ErrAlreadyStarted = errors.New("synchronizer already started")

// Notifier is invoked when one of the tracked videos finishes processing.
type Notifier func(video model.Video)

// Synchronizer mirrors a user's video rows into an owned in-memory list and
// keeps it current from hub updates. The subscription lives exactly as long
// as the synchronizer: Start acquires it, Close releases it.
type Synchronizer struct {
	store  *store.Store
	hub    *events.Hub
	log    *zap.Logger
	notify Notifier

	mu      sync.RWMutex
	userID  string
	videos  []model.Video
	loading bool

	unsubscribe func()
	done        chan struct{}
}

func New(st *store.Store, hub *events.Hub, logger *zap.Logger, notify Notifier) *Synchronizer {
	return &Synchronizer{
		store:  st,
		hub:    hub,
		log:    logger,
		notify: notify,
		done:   make(chan struct{}),
	}
}

// Start performs the initial bulk fetch (newest first) and opens the update
// subscription.
func (s *Synchronizer) Start(userID string) error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.userID = userID
	s.loading = true
	s.mu.Unlock()

	videos, err := s.store.ListVideosByUser(userID)

	s.mu.Lock()
	s.loading = false
	if err == nil {
		s.videos = videos
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Error("fetch videos", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	_, ch, unsubscribe := s.hub.Subscribe(userID, 64)
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	go s.loop(ch)
	return nil
}

func (s *Synchronizer) loop(ch <-chan model.VideoUpdate) {
	defer close(s.done)
	for upd := range ch {
		s.apply(upd)
	}
}

// apply replaces the matching entity wholesale with the update's row and
// raises the completion notification on the processing -> completed edge.
func (s *Synchronizer) apply(upd model.VideoUpdate) {
	s.mu.Lock()
	for i := range s.videos {
		if s.videos[i].ID == upd.Video.ID {
			s.videos[i] = upd.Video
			break
		}
	}
	s.mu.Unlock()

	if upd.OldStatus == model.StatusProcessing &&
		upd.Video.Status == model.StatusCompleted {
		s.log.Info("video ready",
			zap.String("video_id", upd.Video.ID),
			zap.String("title", upd.Video.Title),
			zap.String("effect", upd.Video.Effect.Label()),
		)
		if s.notify != nil {
			s.notify(upd.Video)
		}
	}
}

// Refresh re-runs the bulk fetch, picking up rows created since Start.
func (s *Synchronizer) Refresh() error {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()

	videos, err := s.store.ListVideosByUser(userID)
	if err != nil {
		s.log.Error("refresh videos", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.videos = videos
	s.mu.Unlock()
	return nil
}

// Videos returns a copy of the current list, newest first.
func (s *Synchronizer) Videos() []model.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Video(nil), s.videos...)
}

func (s *Synchronizer) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Close tears the subscription down and waits for the apply loop to drain.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe == nil {
		return
	}
	unsubscribe()
	<-s.done
}
