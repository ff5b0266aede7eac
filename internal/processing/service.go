package processing

import (
	"context"
	"errors"

	"glowup/server/internal/model"
	"glowup/server/internal/store"
	"glowup/server/internal/telemetry"

	"go.uber.org/zap"
)

var ErrMissingVideoID = errors.New("video id is required")

// Service is the processing trigger. Trigger flips the row to processing and
// schedules the simulated job as detached work; the caller never hears about
// the job's outcome directly.
type Service struct {
	store  *store.Store
	engine Engine
	log    *zap.Logger
}

func NewService(st *store.Store, engine Engine, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		engine: engine,
		log:    logger,
	}
}

// Trigger sets status=processing and schedules the job. There is no guard
// against the row already being in processing; concurrent triggers for the
// same id each schedule their own job and the last terminal write wins.
func (s *Service) Trigger(videoID string, effect model.VideoEffect) error {
	if videoID == "" {
		return ErrMissingVideoID
	}
	if !effect.Valid() {
		effect = model.EffectEnhance
	}
	if err := s.store.SetVideoStatus(videoID, model.StatusProcessing); err != nil {
		return err
	}
	s.log.Info("processing started",
		zap.String("video_id", videoID),
		zap.String("effect", string(effect)),
	)
	go s.simulate(videoID, effect)
	return nil
}

// simulate runs after the trigger's response has been sent. Every failure
// path ends in a status=error write; there is no retry and no way back to
// the caller.
func (s *Service) simulate(videoID string, effect model.VideoEffect) {
	video, err := s.store.GetVideo(videoID)
	if err != nil {
		s.fail(videoID, effect, err)
		return
	}

	result, err := s.engine.Apply(context.Background(), video, effect)
	if err != nil {
		s.fail(videoID, effect, err)
		return
	}

	if err := s.store.CompleteVideo(videoID, result.ProcessedURL, result.ThumbnailURL, effect); err != nil {
		s.fail(videoID, effect, err)
		return
	}
	telemetry.ProcessingJobs.WithLabelValues(string(effect), "completed").Inc()
	s.log.Info("processing completed",
		zap.String("video_id", videoID),
		zap.String("effect", string(effect)),
	)
}

func (s *Service) fail(videoID string, effect model.VideoEffect, cause error) {
	s.log.Error("processing failed",
		zap.String("video_id", videoID),
		zap.String("effect", string(effect)),
		zap.Error(cause),
	)
	if err := s.store.SetVideoStatus(videoID, model.StatusError); err != nil {
		s.log.Error("write error status",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
	}
	telemetry.ProcessingJobs.WithLabelValues(string(effect), "error").Inc()
}
