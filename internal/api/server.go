package api

import (
	"time"

	"glowup/server/internal/analytics"
	"glowup/server/internal/auth"
	"glowup/server/internal/events"
	"glowup/server/internal/processing"
	"glowup/server/internal/store"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	auth       *auth.Service
	store      *store.Store
	processing *processing.Service
	analytics  *analytics.Service
	hub        *events.Hub
	log        *zap.Logger
	shareCache *gocache.Cache
}

func NewServer(
	authSvc *auth.Service,
	st *store.Store,
	processingSvc *processing.Service,
	analyticsSvc *analytics.Service,
	hub *events.Hub,
	logger *zap.Logger,
	shareTTL time.Duration,
) *Server {
	if shareTTL <= 0 {
		shareTTL = 30 * time.Second
	}
	return &Server{
		auth:       authSvc,
		store:      st,
		processing: processingSvc,
		analytics:  analyticsSvc,
		hub:        hub,
		log:        logger,
		shareCache: gocache.New(shareTTL, 10*time.Minute),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(TraceMiddleware())
	r.Use(RequestLogMiddleware(s.log))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Function-style endpoints keep their own bare wire shapes and stay open
	// to unauthenticated callers, matching the share surface.
	functions := r.Group("/functions")
	functions.POST("/process-video", s.processVideo)
	functions.POST("/record-view", s.recordView)

	v1 := r.Group("/api/v1")
	v1.GET("/healthz", func(c *gin.Context) {
		writeData(c, 200, gin.H{"status": "ok"})
	})

	v1.POST("/auth/register", s.register)
	v1.POST("/auth/login", s.login)
	v1.POST("/auth/refresh", s.refresh)

	v1.GET("/shared/:video_id", s.sharedVideo)

	authed := v1.Group("")
	authed.Use(AuthMiddleware(s.auth))
	{
		authed.POST("/auth/logout", s.logout)
		authed.GET("/me", s.me)

		authed.POST("/videos", s.createVideo)
		authed.GET("/videos", s.listVideos)
		authed.GET("/videos/:video_id", s.getVideo)
		authed.GET("/videos/:video_id/analytics", s.videoAnalytics)

		authed.GET("/events/videos", s.streamVideoUpdates)
	}

	return r
}
