package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/bots"
	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/db"
	"github.com/academydays/hubby/internal/prefs"
	"github.com/academydays/hubby/internal/server"
	"github.com/academydays/hubby/internal/source"
	"github.com/academydays/hubby/internal/widget"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the chat widget and bot webhook server",
	Long:  `Starts the hubby HTTP server with the landing page, the chat widget, its REST and WebSocket APIs, and the Slack and Teams webhooks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "hubby.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		loader := source.NewLoader(cfg, logger)

		// Warm the knowledge base so the first visitor does not wait on it.
		res := loader.Load(cmd.Context())
		if res.Degraded() {
			logger.Warn("knowledge base unavailable, answering with the apology", zap.Error(res.Err))
		} else {
			logger.Info("knowledge base loaded",
				zap.String("origin", string(res.Origin)),
				zap.Int("days", len(res.Doc.Days)))
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, logger)

		registerAllRoutes(srv, cfg, loader, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown", zap.Error(err))
			}
		}()

		logger.Info("hubby server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("database", dbPath),
			zap.String("source", string(cfg.Source.Mode)))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires the widget and the bot webhooks onto the server.
func registerAllRoutes(srv *server.Server, cfg *config.Config, loader *source.Loader, logger *zap.Logger) {
	r := srv.Router()

	// Widget (landing, chat page, REST and WebSocket)
	store := prefs.NewStore(srv.Database())
	widget.New(cfg, loader, store, logger.Named("widget")).RegisterRoutes(r)

	// Bots (Slack & Teams)
	botProcessor := bots.NewProcessor(cfg, loader)
	botGateway := bots.NewGateway(botProcessor)
	slackHandler := bots.NewSlackHandler(botGateway, cfg.Bots.SlackSigningSecret)
	teamsHandler := bots.NewTeamsHandler(botGateway)
	bots.RegisterRoutes(r, slackHandler, teamsHandler)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
