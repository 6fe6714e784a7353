package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/binilvincent/portfolio/internal/chatbot"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Nik in the terminal",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sess := chatbot.NewSession(uuid.NewString(), chatbot.Options{
		Knowledge: a.kb,
		MinDelay:  a.cfg.Chat.MinDelay,
		MaxDelay:  a.cfg.Chat.MaxDelay,
		Logger:    a.logger,
		Listener:  terminalListener(out),
	})
	defer sess.Close()

	greeting := chatbot.Greetings()[0]
	fmt.Fprintf(out, "Nik: %s\n(type \"exit\" to leave)\n\n", greeting)

	prompt := promptui.Prompt{
		Label: "You",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return chatbot.ErrEmptyMessage
			}
			return nil
		},
	}

	for {
		text, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "exit", "quit", "bye":
			return nil
		}
		if _, err := sess.Reply(cmd.Context(), text); err != nil {
			return err
		}
	}
}

// terminalListener prints the assistant's side of the conversation.
func terminalListener(out io.Writer) chatbot.Listener {
	return func(ev chatbot.Event) {
		switch ev.Kind {
		case chatbot.EventTypingShown:
			fmt.Fprint(out, "Nik is typing...")
		case chatbot.EventTypingHidden:
			fmt.Fprint(out, "\r                \r")
		case chatbot.EventMessage:
			if ev.Entry.Speaker == chatbot.SpeakerAssistant {
				fmt.Fprintf(out, "Nik: %s\n\n", ev.Entry.Text)
			}
		}
	}
}
