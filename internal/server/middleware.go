package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/store"
)

// hashIP is stable per IP for the life of the salt.
func hashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Error("request", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	}
}

var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/api/", "/ws/",
}

// visitorTracking records page views under a hashed IP. Do Not Track is
// honoured.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		v := store.Visit{
			HashedIP:  hashIP(c.ClientIP(), s.salt),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.opts.Now(),
		}
		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.opts.Store.RecordVisit(ctx, v); err != nil {
				s.logger.Warn("failed to track visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// adminAuth sends anyone without a valid admin token to the login page.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err == nil {
			var claims *Claims
			if claims, err = s.auth.Validate(token); err == nil {
				c.Set("admin", claims.Username)
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
	}
}
