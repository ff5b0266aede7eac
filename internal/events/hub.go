package events

import (
	"sync"

	"glowup/server/internal/model"

	"github.com/google/uuid"
)

// Hub fans video row updates out to subscribers, keyed by the owning user.
// It models the realtime channel a dashboard holds open on the videos table.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan model.VideoUpdate
}

func NewHub() *Hub {
	return &Hub{
		subs: map[string]map[string]chan model.VideoUpdate{},
	}
}

func (h *Hub) Subscribe(userID string, buf int) (string, <-chan model.VideoUpdate, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subID := uuid.NewString()
	if _, ok := h.subs[userID]; !ok {
		h.subs[userID] = map[string]chan model.VideoUpdate{}
	}
	ch := make(chan model.VideoUpdate, buf)
	h.subs[userID][subID] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		userSubs, ok := h.subs[userID]
		if !ok {
			return
		}
		c, ok := userSubs[subID]
		if !ok {
			return
		}
		delete(userSubs, subID)
		close(c)
		if len(userSubs) == 0 {
			delete(h.subs, userID)
		}
	}
	return subID, ch, unsubscribe
}

func (h *Hub) Publish(userID string, upd model.VideoUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	userSubs, ok := h.subs[userID]
	if !ok {
		return
	}
	for _, ch := range userSubs {
		select {
		case ch <- upd:
		default:
			// Drop stale subscribers to keep writers non-blocking.
		}
	}
}
