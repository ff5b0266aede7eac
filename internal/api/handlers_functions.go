package api

import (
	"errors"
	"net/http"

	"glowup/server/internal/analytics"
	"glowup/server/internal/model"
	"glowup/server/internal/processing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The two handlers below keep the bare response shapes the function
// endpoints have always had: {message}/{error} and {success}/{error},
// without the versioned API's envelope.

type processVideoRequest struct {
	VideoID string `json:"videoId"`
	Effect  string `json:"effect"`
}

func (s *Server) processVideo(c *gin.Context) {
	var req processVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}
	if err := s.processing.Trigger(req.VideoID, model.VideoEffect(req.Effect)); err != nil {
		if errors.Is(err, processing.ErrMissingVideoID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
			return
		}
		s.log.Error("trigger processing failed", zap.String("video_id", req.VideoID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process video"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Video processing started"})
}

type recordViewRequest struct {
	VideoID string `json:"videoId"`
}

func (s *Server) recordView(c *gin.Context) {
	var req recordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}
	meta := analytics.ViewerMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Country:   c.GetHeader("CF-IPCountry"),
	}
	if meta.ClientIP == "" {
		meta.ClientIP = "unknown"
	}
	if meta.UserAgent == "" {
		meta.UserAgent = "unknown"
	}
	if err := s.analytics.RecordView(req.VideoID, meta); err != nil {
		if errors.Is(err, analytics.ErrMissingVideoID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
