package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"glowup/server/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type createVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Effect      string `json:"effect"`
	OriginalURL string `json:"original_url" binding:"required"`
}

// createVideo inserts the row the dashboard creates right after the upload
// to storage finishes. Rows always start out pending; processing is a
// separate, explicit trigger call.
func (s *Server) createVideo(c *gin.Context) {
	if !requireJSON(c) {
		return
	}
	userID := userIDFromContext(c)
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid video payload", false, nil)
		return
	}
	effect := model.VideoEffect(req.Effect)
	if !effect.Valid() {
		effect = model.EffectEnhance
	}
	now := time.Now().UTC()
	video, err := s.store.CreateVideo(model.Video{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      model.StatusPending,
		Effect:      effect,
		OriginalURL: req.OriginalURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create video", false, nil)
		return
	}
	writeData(c, http.StatusCreated, video)
}

func (s *Server) listVideos(c *gin.Context) {
	userID := userIDFromContext(c)
	items, err := s.store.ListVideosByUser(userID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list videos", true, nil)
		return
	}
	writeData(c, http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (s *Server) getVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	userID := userIDFromContext(c)
	video, err := s.store.GetVideo(videoID)
	if err != nil {
		writeError(c, http.StatusNotFound, "VIDEO_NOT_FOUND", "Video not found", false, nil)
		return
	}
	if video.UserID != userID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "No access to video", false, nil)
		return
	}
	writeData(c, http.StatusOK, video)
}

func (s *Server) videoAnalytics(c *gin.Context) {
	videoID := c.Param("video_id")
	userID := userIDFromContext(c)
	video, err := s.store.GetVideo(videoID)
	if err != nil {
		writeError(c, http.StatusNotFound, "VIDEO_NOT_FOUND", "Video not found", false, nil)
		return
	}
	if video.UserID != userID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "No access to video", false, nil)
		return
	}
	events, err := s.analytics.ListViews(videoID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analytics", true, nil)
		return
	}
	writeData(c, http.StatusOK, gin.H{
		"video_id":   videoID,
		"view_count": video.ViewCount,
		"items":      events,
		"total":      len(events),
	})
}

// sharedVideo is the public share surface: a video is reachable here once
// completed, and only then. Responses are cached briefly since completed is
// terminal; view counts on this path may lag by the cache TTL.
func (s *Server) sharedVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	if cached, ok := s.shareCache.Get(videoID); ok {
		writeData(c, http.StatusOK, cached)
		return
	}
	video, err := s.store.GetVideo(videoID)
	if err != nil || video.Status != model.StatusCompleted {
		writeError(c, http.StatusNotFound, "VIDEO_NOT_FOUND", "Video not found or still processing", false, nil)
		return
	}
	s.shareCache.Set(videoID, video, gocache.DefaultExpiration)
	writeData(c, http.StatusOK, video)
}

// streamVideoUpdates pushes the caller's video row changes over SSE, the
// server side of the dashboard's realtime subscription.
func (s *Server) streamVideoUpdates(c *gin.Context) {
	userID := userIDFromContext(c)

	_, sub, unsubscribe := s.hub.Subscribe(userID, 128)
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		writeError(c, http.StatusInternalServerError, "SSE_UNSUPPORTED", "Streaming unsupported", false, nil)
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case upd, ok := <-sub:
			if !ok {
				return
			}
			writeSSE(c, upd)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(c.Writer, ": ping %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeSSE(c *gin.Context, upd model.VideoUpdate) {
	payload, _ := json.Marshal(upd)
	fmt.Fprintf(c.Writer, "event: video_update\n")
	fmt.Fprintf(c.Writer, "data: %s\n\n", string(payload))
}
