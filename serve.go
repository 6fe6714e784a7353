package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/binilvincent/portfolio/internal/chatbot"
	"github.com/binilvincent/portfolio/internal/mail"
	"github.com/binilvincent/portfolio/internal/server"
	"github.com/binilvincent/portfolio/internal/store"
)

const pruneInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio web server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck
	cfg, logger := a.cfg, a.logger

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	hub := chatbot.NewHub(chatbot.Options{
		Knowledge: a.kb,
		MinDelay:  cfg.Chat.MinDelay,
		MaxDelay:  cfg.Chat.MaxDelay,
		Recorder:  st,
		Logger:    logger,
	})
	mailer := mail.New(mail.Settings{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		To:   cfg.SMTP.To,
	}, logger)
	if !mailer.Configured() {
		logger.Warn("SMTP credentials not configured; the contact form will report errors")
	}

	srv, err := server.New(server.Options{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Hub:       hub,
		Mailer:    mailer,
		Knowledge: a.kb,
		Page:      pageCopy(),
	})
	if err != nil {
		return err
	}
	defer srv.Wait()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return maintain(ctx, srv, hub, cfg.Privacy.CleanupInterval, cfg.Chat.SessionIdle, logger)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		hub.CloseAll()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// maintain runs the privacy cleanup and prunes idle chat sessions until ctx
// is done.
func maintain(ctx context.Context, srv *server.Server, hub *chatbot.Hub, cleanupEvery, idle time.Duration, logger *zap.Logger) error {
	cleanup := func() {
		if _, err := srv.CleanupVisitors(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("privacy cleanup failed", zap.Error(err))
		}
	}
	cleanup()

	cleanupTicker := time.NewTicker(cleanupEvery)
	defer cleanupTicker.Stop()
	pruneTicker := time.NewTicker(pruneInterval)
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-cleanupTicker.C:
			cleanup()
		case <-pruneTicker.C:
			if n := hub.Prune(idle); n > 0 {
				logger.Debug("pruned idle chat sessions", zap.Int("count", n))
			}
		}
	}
}
