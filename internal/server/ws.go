package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/chatbot"
	"github.com/binilvincent/portfolio/internal/effects"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketRequest is what the chat widget sends.
type socketRequest struct {
	Type    string `json:"type"` // "message" or "toggle"
	Content string `json:"content"`
}

// socketEvent is what the chat widget receives.
type socketEvent struct {
	Type      string         `json:"type"` // session, message, typing, toggle or error
	SessionID string         `json:"session_id,omitempty"`
	Entry     *chatbot.Entry `json:"entry,omitempty"`
	HTML      template.HTML  `json:"html,omitempty"`
	Visible   *bool          `json:"visible,omitempty"`
	Open      *bool          `json:"open,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// socketWriter serialises writes; session events arrive from timer goroutines.
type socketWriter struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *zap.Logger
}

func (w *socketWriter) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.conn.WriteJSON(v)
	if err != nil {
		w.logger.Debug("websocket write", zap.Error(err))
	}
	return err
}

func eventFor(ev chatbot.Event) socketEvent {
	switch ev.Kind {
	case chatbot.EventTypingShown, chatbot.EventTypingHidden:
		visible := ev.Kind == chatbot.EventTypingShown
		return socketEvent{Type: "typing", Visible: &visible}
	default:
		e := ev.Entry
		return socketEvent{Type: "message", Entry: &e, HTML: chatbot.FormatHTML(e.Text)}
	}
}

// handleChatSocket gives each connection its own session for its lifetime.
func (s *Server) handleChatSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	w := &socketWriter{conn: conn, logger: s.logger}
	sess := s.opts.Hub.Open(func(ev chatbot.Event) {
		_ = w.send(eventFor(ev))
	})
	defer s.opts.Hub.Close(sess.ID())

	if err := w.send(socketEvent{Type: "session", SessionID: sess.ID()}); err != nil {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var req socketRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			_ = w.send(socketEvent{Type: "error", Error: "invalid message format"})
			continue
		}

		switch req.Type {
		case "message":
			if _, err := sess.Send(req.Content); err != nil {
				_ = w.send(socketEvent{Type: "error", Error: err.Error()})
			}
		case "toggle":
			open := sess.Toggle()
			_ = w.send(socketEvent{Type: "toggle", Open: &open})
		default:
			_ = w.send(socketEvent{Type: "error", Error: "unknown message type: " + req.Type})
		}
	}
}

// handleEffectsSocket streams a Scene until the viewer disconnects. A failed
// write ends the stream quietly; the page simply stops spawning. The page
// passes ?slides=&width=&height= to receive slide changes for its canvas.
func (s *Server) handleEffectsSocket(c *gin.Context) {
	slides, w, h, err := slideParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// reads only to notice the close
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	out := &socketWriter{conn: conn, logger: s.logger}
	scene := effects.NewScene(s.cfg.Effects, newRand()).WithSlides(slides, w, h)
	err = scene.Run(ctx, func(sp effects.Spawn) {
		if out.send(sp) != nil {
			cancel()
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("effects stream stopped", zap.Error(err))
	}
	conn.Close()
	<-readDone
}

func slideParams(c *gin.Context) (slides, width, height int, err error) {
	if c.Query("slides") == "" {
		return 0, 0, 0, nil
	}
	slides, errS := strconv.Atoi(c.Query("slides"))
	width, errW := strconv.Atoi(c.Query("width"))
	height, errH := strconv.Atoi(c.Query("height"))
	switch {
	case errS != nil || slides < 0 || slides > maxSlides:
		return 0, 0, 0, fmt.Errorf("slides must be between 0 and %d", maxSlides)
	case errW != nil || errH != nil || width <= 0 || height <= 0 || width > maxDimension || height > maxDimension:
		return 0, 0, 0, errors.New("width and height must be positive integers")
	}
	return slides, width, height, nil
}
