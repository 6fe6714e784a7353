package server

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/binilvincent/portfolio/internal/effects"
)

const (
	maxBatch     = 500
	maxDimension = 8192
	maxSlides    = 50
)

func (s *Server) generator() *effects.Generator {
	return effects.NewGenerator(s.cfg.Effects, newRand())
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (s *Server) handleEffectsConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Effects)
}

// handleEffectBatch draws ?count= elements of one kind, defaulting to the
// configured opening count.
func (s *Server) handleEffectBatch(c *gin.Context) {
	kind := effects.Kind(c.Param("kind"))
	n, ok := s.defaultCount(kind)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown effect " + string(kind)})
		return
	}
	if raw := c.Query("count"); raw != "" {
		var err error
		if n, err = strconv.Atoi(raw); err != nil || n < 0 || n > maxBatch {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 0 and " + strconv.Itoa(maxBatch)})
			return
		}
	}
	spawn, _ := s.generator().Batch(kind, n)
	c.JSON(http.StatusOK, spawn)
}

func (s *Server) defaultCount(kind effects.Kind) (int, bool) {
	cfg := s.cfg.Effects
	switch kind {
	case effects.KindStars:
		return cfg.Stars.Count, true
	case effects.KindBubbles:
		return cfg.Bubbles.Initial, true
	case effects.KindComets:
		return cfg.Comets.Initial, true
	case effects.KindShootingStars:
		return cfg.ShootingStars.Initial, true
	case effects.KindTwinklingStars:
		return cfg.TwinklingStars.Count, true
	}
	return 0, false
}

func (s *Server) handleDissolve(c *gin.Context) {
	w, errW := strconv.Atoi(c.Query("width"))
	h, errH := strconv.Atoi(c.Query("height"))
	if errW != nil || errH != nil || w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive integers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"particles": s.generator().Dissolve(w, h)})
}
