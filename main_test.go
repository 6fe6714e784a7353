package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/chatbot"
	"github.com/binilvincent/portfolio/internal/config"
	"github.com/binilvincent/portfolio/internal/server"
	"github.com/binilvincent/portfolio/internal/store"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	askTopicOnly = false
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAsk(t *testing.T) {
	out, err := runCLI(t, "ask", "What", "are", "your", "skills?")
	require.NoError(t, err)
	assert.Contains(t, out, "[skills]")
	assert.Contains(t, out, "💻 Technologies:")
}

func TestAsk_TopicOnly(t *testing.T) {
	tests := map[string]string{
		"tell me about his project experience": "experience",
		"Do you know ASP.NET?":                 "dotnet",
		"asdfgh":                               "fallback",
	}
	for question, want := range tests {
		out, err := runCLI(t, "ask", "--topic", question)
		require.NoError(t, err, question)
		assert.Equal(t, want+"\n", out, question)
	}
}

func TestAsk_Rejects(t *testing.T) {
	_, err := runCLI(t, "ask", "   ")
	assert.ErrorIs(t, err, chatbot.ErrEmptyMessage)

	_, err = runCLI(t, "ask")
	assert.Error(t, err)
}

func TestTerminalListener(t *testing.T) {
	var buf bytes.Buffer
	l := terminalListener(&buf)
	l(chatbot.Event{Kind: chatbot.EventMessage, Entry: chatbot.Entry{Speaker: chatbot.SpeakerUser, Text: "hi"}})
	l(chatbot.Event{Kind: chatbot.EventTypingShown})
	l(chatbot.Event{Kind: chatbot.EventTypingHidden})
	l(chatbot.Event{Kind: chatbot.EventMessage, Entry: chatbot.Entry{Speaker: chatbot.SpeakerAssistant, Text: "Hello!"}})

	out := buf.String()
	assert.Contains(t, out, "Nik is typing...")
	assert.Contains(t, out, "Nik: Hello!\n")
	assert.Equal(t, 1, strings.Count(out, "Nik:"))
}

func TestMaintain(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Admin.Secret = "secret"

	st, err := store.OpenMemory()
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.RecordVisit(ctx, store.Visit{HashedIP: "stale", Timestamp: time.Now().Add(-2 * cfg.Privacy.Retention)}))

	hub := chatbot.NewHub(chatbot.Options{})
	defer hub.CloseAll()
	srv, err := server.New(server.Options{Config: cfg, Store: st, Hub: hub})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- maintain(ctx, srv, hub, time.Hour, time.Minute, zap.NewNop()) }()

	// the first cleanup runs straight away
	assert.Eventually(t, func() bool {
		visits, err := st.RecentVisits(context.Background(), 10)
		return err == nil && len(visits) == 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
