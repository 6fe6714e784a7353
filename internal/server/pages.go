package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/mail"
)

// QuickReply is a canned question offered under the chat window.
type QuickReply struct {
	Label string
	Query string
}

// Page is the copy of the portfolio page that does not come from the
// knowledge base.
type Page struct {
	Title        string
	Tagline      string
	AboutMe      string
	QuickReplies []QuickReply
	// Slides are image URLs for the about-section slideshow.
	Slides []string
}

// DefaultQuickReplies are the shortcuts shown when a Page sets none.
func DefaultQuickReplies() []QuickReply {
	return []QuickReply{
		{Label: "Skills", Query: "What are your skills?"},
		{Label: "Experience", Query: "Tell me about your experience"},
		{Label: "Projects", Query: "What projects have you built?"},
		{Label: "Education", Query: "Where did you study?"},
		{Label: "Contact", Query: "How can I contact you?"},
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	page := s.opts.Page
	if len(page.QuickReplies) == 0 {
		page.QuickReplies = DefaultQuickReplies()
	}
	if page.Title == "" {
		page.Title = s.opts.Knowledge.Person.Name
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"page":      page,
		"kb":        s.opts.Knowledge,
		"assistant": "Nik",
	})
}

func (s *Server) handlePrivacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":         "Privacy Policy",
		"retentionDays": int(s.cfg.Privacy.Retention.Hours() / 24),
	})
}

// handleContact answers with an HTML fragment either way, for HTMX to swap in.
func (s *Server) handleContact(c *gin.Context) {
	var msg mail.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email address and a message.",
		})
		return
	}

	if err := s.opts.Mailer.Send(msg); err != nil {
		s.logger.Error("contact form delivery failed", zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
