package chatbot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_OpenGetClose(t *testing.T) {
	h := NewHub(quickOptions())
	defer h.CloseAll()

	s := h.Open(nil)
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, h.Len())

	got, err := h.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, h.Close(s.ID()))
	_, err = h.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, h.Close(s.ID()), ErrSessionNotFound)
}

func TestHub_SessionsAreIndependent(t *testing.T) {
	h := NewHub(quickOptions())
	defer h.CloseAll()

	a, b := h.Open(nil), h.Open(nil)
	assert.NotEqual(t, a.ID(), b.ID())

	_, err := a.Reply(context.Background(), "hi")
	require.NoError(t, err)
	assert.Len(t, a.Entries(), 2)
	assert.Empty(t, b.Entries())
}

func TestHub_ListenerPerSession(t *testing.T) {
	h := NewHub(quickOptions())
	defer h.CloseAll()

	events := &eventLog{}
	s := h.Open(events.listen)
	_, err := s.Reply(context.Background(), "thanks")
	require.NoError(t, err)
	assert.Len(t, events.kinds(), 4)
}

func TestHub_Prune(t *testing.T) {
	now := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	opts := quickOptions()
	opts.Now = func() time.Time { return now }
	h := NewHub(opts)
	defer h.CloseAll()

	old := h.Open(nil)
	now = now.Add(time.Hour)
	fresh := h.Open(nil)

	assert.Equal(t, 1, h.Prune(30*time.Minute))
	_, err := h.Get(old.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = h.Get(fresh.ID())
	assert.NoError(t, err)

	_, err = old.Send("hi")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestHub_CloseAll(t *testing.T) {
	h := NewHub(quickOptions())
	a := h.Open(nil)
	h.Open(nil)

	h.CloseAll()
	assert.Equal(t, 0, h.Len())
	_, err := a.Send("hi")
	assert.ErrorIs(t, err, ErrSessionClosed)
}
