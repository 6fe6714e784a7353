package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/chatbot"
	"github.com/binilvincent/portfolio/internal/store"
)

func (s *Server) adminRoutes() {
	r := s.engine

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})
	r.POST("/admin/login", s.handleLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.logger.Info("admin logout", zap.String("from", hashIP(c.ClientIP(), s.salt)))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context(), s.opts.Now())
		if err != nil {
			s.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.opts.Hub.Len(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context(), s.opts.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.opts.Store.RecentVisits(c.Request.Context(), 200)
		if err != nil {
			s.logger.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context(), s.opts.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin stats exported", zap.String("by", hashIP(c.ClientIP(), s.salt)))
		c.JSON(http.StatusOK, stats)
	})

	admin.DELETE("/chats/:id", s.handleDeleteChat)

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.CleanupVisitors(c.Request.Context())
		if err != nil {
			s.logger.Error("privacy cleanup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed", "deleted": n})
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	from := hashIP(c.ClientIP(), s.salt)

	if !s.auth.Check(username, password) {
		s.logger.Warn("failed admin login attempt", zap.String("from", from))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}

	token, err := s.auth.Issue(username)
	if err != nil {
		s.logger.Error("issuing admin token", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Login failed"})
		return
	}
	c.SetCookie(adminCookie, token, int(s.cfg.Admin.TokenTTL.Seconds()), "/admin", "", false, true)
	s.logger.Info("admin login successful", zap.String("from", from))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// handleDeleteChat ends a live session, if any, and removes its transcript.
func (s *Server) handleDeleteChat(c *gin.Context) {
	id := c.Param("id")
	liveErr := s.opts.Hub.Close(id)

	err := s.opts.Store.DeleteSession(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound) && errors.Is(liveErr, chatbot.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		return
	case err != nil && !errors.Is(err, store.ErrNotFound):
		s.logger.Error("deleting chat", zap.String("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chat"})
		return
	}

	s.logger.Info("chat deleted by admin", zap.String("session_id", id), zap.String("by", hashIP(c.ClientIP(), s.salt)))
	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}
