package sweep

import (
	"time"

	"glowup/server/internal/model"
	"glowup/server/internal/store"
	"glowup/server/internal/telemetry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Service runs the periodic maintenance pass: it refreshes the per-status
// gauges and flags rows that have sat in processing past the configured
// horizon as error. A flagged row is not retried; re-processing takes a new
// trigger call, same as any other errored video.
type Service struct {
	store      *store.Store
	log        *zap.Logger
	spec       string
	stuckAfter time.Duration
	cron       *cron.Cron
}

func NewService(st *store.Store, logger *zap.Logger, spec string, stuckAfter time.Duration) *Service {
	return &Service{
		store:      st,
		log:        logger,
		spec:       spec,
		stuckAfter: stuckAfter,
	}
}

func (s *Service) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("sweep service started",
		zap.String("spec", s.spec),
		zap.Duration("stuck_after", s.stuckAfter),
	)
	return nil
}

func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("sweep service stopped")
}

// Run executes one maintenance pass. Exported so tests and the serve command
// can invoke it outside the cron schedule.
func (s *Service) Run() {
	s.updateGauges()
	s.flagStuck()
}

func (s *Service) updateGauges() {
	counts, err := s.store.CountVideosByStatus()
	if err != nil {
		s.log.Error("count videos by status", zap.Error(err))
		return
	}
	for _, status := range []model.VideoStatus{
		model.StatusPending,
		model.StatusProcessing,
		model.StatusCompleted,
		model.StatusError,
	} {
		telemetry.VideosByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

func (s *Service) flagStuck() {
	cutoff := time.Now().UTC().Add(-s.stuckAfter)
	stuck, err := s.store.ListStaleProcessing(cutoff)
	if err != nil {
		s.log.Error("list stale processing", zap.Error(err))
		return
	}
	for _, video := range stuck {
		s.log.Warn("video stuck in processing, flagging as error",
			zap.String("video_id", video.ID),
			zap.Time("updated_at", video.UpdatedAt),
		)
		if err := s.store.SetVideoStatus(video.ID, model.StatusError); err != nil {
			s.log.Error("flag stuck video", zap.String("video_id", video.ID), zap.Error(err))
			continue
		}
		telemetry.StuckVideosSwept.Inc()
	}
}
