package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/config"
	"github.com/binilvincent/portfolio/internal/knowledge"
	"github.com/binilvincent/portfolio/internal/logging"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Binil Vincent's portfolio site and its Nik assistant",
	Long: "Serves the portfolio website with the Nik FAQ chatbot, or talks to Nik " +
		"straight from the terminal.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app is what every command starts from.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	kb     *knowledge.Base
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debugFlag {
		cfg.Debug = true
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	kb := knowledge.Default()
	if cfg.KnowledgePath != "" {
		if kb, err = knowledge.Load(cfg.KnowledgePath); err != nil {
			return nil, err
		}
		logger.Info("loaded knowledge base", zap.String("path", cfg.KnowledgePath))
	}
	return &app{cfg: cfg, logger: logger, kb: kb}, nil
}
