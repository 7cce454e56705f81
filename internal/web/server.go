// Package web serves the public read-only share dashboard API.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/services"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/share"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/stats"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/utils"
)

type Server struct {
	services *services.ServiceManager
	engine   *gin.Engine
	srv      *http.Server
}

func NewServer(sm *services.ServiceManager, mediaDir, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{services: sm, engine: engine}

	public := engine.Group("/api/public/:token")
	public.GET("/profile", s.handleProfile)
	public.GET("/logs", s.handleLogs)
	public.GET("/stats", s.handleStats)

	engine.Static("/media", mediaDir)

	s.srv = &http.Server{Addr: ":" + port, Handler: engine}
	return s
}

func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", "err", err)
		}
	}()
	log.Info("Public share API listening", "addr", s.srv.Addr)
}

func (s *Server) Stop() error {
	return s.srv.Close()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// resolveToken turns the path token into a user id, mapping the share
// error taxonomy onto status codes.
func (s *Server) resolveToken(c *gin.Context) (int64, bool) {
	userID, err := s.services.Share.Resolve(c.Param("token"))
	if errors.Is(err, share.ErrInvalidToken) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed share link"})
		return 0, false
	}
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "share link expired or disabled"})
		return 0, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporarily unavailable"})
		return 0, false
	}
	return userID, true
}

// withRetry runs a public read, retrying exactly once on a transient
// failure.
func withRetry[T any](read func() (T, error)) (T, error) {
	v, err := read()
	if err != nil && !errors.Is(err, database.ErrNotFound) && !errors.Is(err, database.ErrNotAuthenticated) {
		v, err = read()
	}
	return v, err
}

func (s *Server) handleProfile(c *gin.Context) {
	userID, ok := s.resolveToken(c)
	if !ok {
		return
	}

	repo := s.services.Repository()
	user, err := withRetry(func() (*database.User, error) {
		return repo.GetUser(userID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporarily unavailable"})
		return
	}

	avatar, found, err := repo.GetValue(database.AvatarKey(userID))
	if err != nil || !found {
		avatar = utils.DefaultAvatar
	}

	c.JSON(http.StatusOK, gin.H{
		"username":     user.Username,
		"avatar":       avatar,
		"member_since": user.CreatedAt.Format(dates.Layout),
	})
}

func (s *Server) handleLogs(c *gin.Context) {
	userID, ok := s.resolveToken(c)
	if !ok {
		return
	}

	logs, err := withRetry(func() ([]database.DailyLog, error) {
		return s.services.Logs.List(userID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (s *Server) handleStats(c *gin.Context) {
	userID, ok := s.resolveToken(c)
	if !ok {
		return
	}

	rng, custom, err := parseRangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := withRetry(func() (*stats.Stats, error) {
		return s.services.Logs.StatsFor(userID, rng, custom)
	})
	if err != nil {
		status := http.StatusInternalServerError
		msg := "temporarily unavailable"
		if errors.Is(err, stats.ErrRangeTooWide) {
			status, msg = http.StatusBadRequest, err.Error()
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if result == nil {
		// Empty selection: the placeholder signal, not an error.
		c.JSON(http.StatusOK, gin.H{"stats": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": result})
}

func parseRangeQuery(c *gin.Context) (stats.TimeRange, *stats.DateRange, error) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err := dates.Parse(fromStr)
		if err != nil {
			return stats.Custom, nil, err
		}
		to, err := dates.Parse(toStr)
		if err != nil {
			return stats.Custom, nil, err
		}
		custom := &stats.DateRange{From: from, To: to}
		if err := stats.ValidateCustomRange(*custom); err != nil {
			return stats.Custom, nil, err
		}
		return stats.Custom, custom, nil
	}

	rng, err := stats.ParseTimeRange(c.Query("range"))
	return rng, nil, err
}
