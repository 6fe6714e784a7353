package server

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/binilvincent/portfolio/internal/chatbot"
	"github.com/binilvincent/portfolio/internal/store"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type chatResponse struct {
	SessionID string        `json:"session_id"`
	Topic     chatbot.Topic `json:"topic"`
	Reply     string        `json:"reply"`
	HTML      template.HTML `json:"html"`
}

type transcriptResponse struct {
	SessionID string          `json:"session_id"`
	Entries   []chatbot.Entry `json:"entries"`
}

// handleChat answers one message, opening a session when none is given.
// The request is held for the thinking delay.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": chatbot.ErrEmptyMessage.Error()})
		return
	}

	var sess *chatbot.Session
	if req.SessionID == "" {
		sess = s.opts.Hub.Open(nil)
	} else {
		var err error
		if sess, err = s.opts.Hub.Get(req.SessionID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	}

	entry, err := sess.Reply(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(chatStatus(err), gin.H{"error": err.Error(), "session_id": sess.ID()})
		return
	}
	c.JSON(http.StatusOK, chatResponse{
		SessionID: sess.ID(),
		Topic:     entry.Topic,
		Reply:     entry.Text,
		HTML:      chatbot.FormatHTML(entry.Text),
	})
}

func chatStatus(err error) int {
	switch {
	case errors.Is(err, chatbot.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, chatbot.ErrResponsePending):
		return http.StatusConflict
	case errors.Is(err, chatbot.ErrSessionClosed), errors.Is(err, chatbot.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		// client went away mid-wait
		return http.StatusRequestTimeout
	}
}

// handleTranscript serves a live session's log, or the stored one once the
// session is gone.
func (s *Server) handleTranscript(c *gin.Context) {
	id := c.Param("id")
	if sess, err := s.opts.Hub.Get(id); err == nil {
		c.JSON(http.StatusOK, transcriptResponse{SessionID: id, Entries: sess.Entries()})
		return
	}

	entries, err := s.opts.Store.Transcript(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": chatbot.ErrSessionNotFound.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transcript"})
		return
	}
	c.JSON(http.StatusOK, transcriptResponse{SessionID: id, Entries: entries})
}
