package processing

import (
	"context"
	"errors"
	"time"

	"glowup/server/internal/model"
)

type Result struct {
	ProcessedURL string
	ThumbnailURL string
}

// Engine applies an effect to a video and yields the output URLs. The stub
// engine below stands in for a real media pipeline.
type Engine interface {
	Apply(ctx context.Context, video model.Video, effect model.VideoEffect) (Result, error)
}

// StubEngine simulates effect processing by sleeping for an effect-dependent
// duration and echoing the original URL back as both outputs. No frame is
// extracted and no transformation happens.
type StubEngine struct {
	baseDelay time.Duration
}

func NewStubEngine(baseDelay time.Duration) *StubEngine {
	if baseDelay <= 0 {
		baseDelay = 5 * time.Second
	}
	return &StubEngine{baseDelay: baseDelay}
}

func (e *StubEngine) Apply(ctx context.Context, video model.Video, effect model.VideoEffect) (Result, error) {
	if video.OriginalURL == "" {
		return Result{}, errors.New("original video URL not set")
	}

	timer := time.NewTimer(e.delayFor(effect))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	return Result{
		ProcessedURL: video.OriginalURL,
		ThumbnailURL: video.OriginalURL,
	}, nil
}

// delayFor scales the base delay by effect; cinematic runs longest.
func (e *StubEngine) delayFor(effect model.VideoEffect) time.Duration {
	factor := 1.0
	switch effect {
	case model.EffectPortrait:
		factor = 1.3
	case model.EffectVintage:
		factor = 1.4
	case model.EffectCinematic:
		factor = 1.6
	}
	return time.Duration(float64(e.baseDelay) * factor)
}
