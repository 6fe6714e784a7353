package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/binilvincent/portfolio/internal/chatbot"
)

var askTopicOnly bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask Nik one question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askTopicOnly, "topic", false, "Print only the detected topic")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return chatbot.ErrEmptyMessage
	}

	topic := chatbot.NewClassifier().Classify(question)
	out := cmd.OutOrStdout()
	if askTopicOnly {
		fmt.Fprintln(out, topic)
		return nil
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fmt.Fprintf(out, "[%s]\n%s\n", topic, chatbot.Generate(topic, a.kb, rng))
	return nil
}
