package chatbot

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/knowledge"
)

var (
	// ErrEmptyMessage is returned for empty or whitespace-only input. Nothing
	// is logged for it.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrResponsePending is returned while the previous message is still
	// being answered. A session answers one message at a time.
	ErrResponsePending = errors.New("a response is still pending")
	ErrSessionClosed   = errors.New("session is closed")
)

// Default bounds of the simulated thinking delay.
const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 2 * time.Second
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Entry is one message of a conversation.
type Entry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Topic     Topic     `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
}

type EventKind string

const (
	EventMessage      EventKind = "message"
	EventTypingShown  EventKind = "typing_shown"
	EventTypingHidden EventKind = "typing_hidden"
)

// Event is what the chat widget renders: an appended message or a change
// of the typing indicator.
type Event struct {
	Kind  EventKind
	Entry Entry
}

// Listener receives session events in order. It runs on the goroutine that
// produced the event and must not call back into the session.
type Listener func(Event)

// Recorder persists entries as they are appended.
type Recorder interface {
	RecordEntry(ctx context.Context, sessionID string, e Entry) error
}

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	Knowledge  *knowledge.Base
	Classifier *Classifier
	// Rand is used by this session only; *rand.Rand is not safe to share.
	Rand     Rand
	MinDelay time.Duration
	MaxDelay time.Duration
	Listener Listener
	Recorder Recorder
	Logger   *zap.Logger
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Knowledge == nil {
		o.Knowledge = knowledge.Default()
	}
	if o.Classifier == nil {
		o.Classifier = NewClassifier()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.MinDelay == 0 && o.MaxDelay == 0 {
		o.MinDelay, o.MaxDelay = DefaultMinDelay, DefaultMaxDelay
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = o.MinDelay
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session is one visitor's conversation with the assistant. The log is
// append-only; it goes away with the session.
type Session struct {
	id   string
	opts Options

	mu         sync.Mutex
	entries    []Entry
	open       bool
	pending    bool
	typing     bool
	timer      *time.Timer
	closed     bool
	closedCh   chan struct{}
	lastActive time.Time
}

// NewSession starts a session.
func NewSession(id string, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		id:         id,
		opts:       opts,
		closedCh:   make(chan struct{}),
		lastActive: opts.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// Send appends the user's message and schedules the assistant's answer
// after the thinking delay. The answer is delivered on the returned channel
// once it has been appended. A message accepted before a concurrent Close
// stays in the log, but its answer never arrives.
func (s *Session) Send(text string) (<-chan Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.pending {
		s.mu.Unlock()
		return nil, ErrResponsePending
	}
	topic := s.opts.Classifier.Classify(text)
	user := Entry{Speaker: SpeakerUser, Text: text, Topic: topic, Timestamp: s.opts.Now()}
	s.entries = append(s.entries, user)
	s.pending = true
	s.lastActive = user.Timestamp

	// The answer waits for ready so its events follow the user's.
	done := make(chan Entry, 1)
	ready := make(chan struct{})
	s.timer = time.AfterFunc(s.thinkingDelay(), func() {
		<-ready
		s.respond(topic, done)
	})
	s.mu.Unlock()
	defer close(ready)

	s.record(user)
	s.emit(Event{Kind: EventMessage, Entry: user})
	s.emit(Event{Kind: EventTypingShown})

	s.mu.Lock()
	closed := s.closed
	s.typing = !closed
	s.mu.Unlock()
	if closed {
		// Close ran while the message was being delivered.
		s.emit(Event{Kind: EventTypingHidden})
	}
	return done, nil
}

// Reply sends text and waits for the answer. Cancelling ctx stops the wait
// only; the answer still lands in the log.
func (s *Session) Reply(ctx context.Context, text string) (Entry, error) {
	done, err := s.Send(text)
	if err != nil {
		return Entry{}, err
	}
	select {
	case e := <-done:
		return e, nil
	case <-s.closedCh:
		return Entry{}, ErrSessionClosed
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
}

func (s *Session) respond(topic Topic, done chan<- Entry) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	e := Entry{
		Speaker:   SpeakerAssistant,
		Text:      Generate(topic, s.opts.Knowledge, s.opts.Rand),
		Topic:     topic,
		Timestamp: s.opts.Now(),
	}
	s.entries = append(s.entries, e)
	s.timer = nil
	s.typing = false
	s.mu.Unlock()

	s.record(e)
	s.emit(Event{Kind: EventTypingHidden})
	s.emit(Event{Kind: EventMessage, Entry: e})

	// Cleared only after the indicator is hidden so a quick second send
	// cannot interleave its indicator with this one.
	s.mu.Lock()
	s.pending = false
	s.lastActive = e.Timestamp
	s.mu.Unlock()

	done <- e
}

func (s *Session) thinkingDelay() time.Duration {
	span := s.opts.MaxDelay - s.opts.MinDelay
	if span <= 0 {
		return s.opts.MinDelay
	}
	return s.opts.MinDelay + time.Duration(s.opts.Rand.Intn(int(span)+1))
}

func (s *Session) emit(ev Event) {
	if s.opts.Listener != nil {
		s.opts.Listener(ev)
	}
}

func (s *Session) record(e Entry) {
	if s.opts.Recorder == nil {
		return
	}
	if err := s.opts.Recorder.RecordEntry(context.Background(), s.id, e); err != nil {
		s.opts.Logger.Warn("failed to record chat entry",
			zap.String("session_id", s.id),
			zap.String("speaker", string(e.Speaker)),
			zap.Error(err),
		)
	}
}

// Entries returns a copy of the conversation so far.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Pending reports whether an answer is on its way.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Toggle flips the chat window between open and closed and returns the new state.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// LastActive is the time of the last appended entry, or the creation time.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close stops any pending answer and hides its typing indicator. It is
// safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
	hide := s.typing
	s.typing = false
	close(s.closedCh)
	s.mu.Unlock()

	if hide {
		s.emit(Event{Kind: EventTypingHidden})
	}
}
