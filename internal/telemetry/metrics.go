package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProcessingJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glowup_processing_jobs_total",
		Help: "Simulated processing jobs by effect and outcome.",
	}, []string{"effect", "outcome"})

	ViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glowup_views_recorded_total",
		Help: "View events recorded.",
	})

	VideosByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "glowup_videos_by_status",
		Help: "Current number of video rows per lifecycle status.",
	}, []string{"status"})

	StuckVideosSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glowup_stuck_videos_swept_total",
		Help: "Rows flagged to error after sitting in processing too long.",
	})
)
