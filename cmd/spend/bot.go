package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spend/internal/bot"
	"github.com/Veraticus/spend/internal/config"
	"github.com/Veraticus/spend/internal/service"
	"github.com/Veraticus/spend/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func botCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram expense bot",
		Long: `Run the Telegram bot. It long-polls for updates, walks each chat through
the amount and description prompts and appends the result to the current
month's tab.

Dialog state is kept in a SQLite database so a restart does not lose a
half-finished entry.`,
		RunE: runBot,
	}

	cmd.Flags().Bool("memory-sessions", false, "Keep dialog state in memory instead of SQLite")
	cmd.Flags().Duration("session-ttl", 30*24*time.Hour, "Drop dialog state untouched for longer than this on startup")

	_ = viper.BindPFlag("bot.memory_sessions", cmd.Flags().Lookup("memory-sessions"))
	_ = viper.BindPFlag("bot.session_ttl", cmd.Flags().Lookup("session-ttl"))

	return cmd
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	botConfig, err := config.LoadBotConfig()
	if err != nil {
		return err
	}

	records, err := newLedger(ctx, logger)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := openSessions(ctx, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	api, err := bot.Connect(botConfig.Token)
	if err != nil {
		return err
	}
	logger.Info("Connected to Telegram", "username", api.Self.UserName)

	conversation := bot.NewConversation(records, sessions, logger)
	return bot.NewBot(api, conversation, *botConfig, logger).Run(ctx)
}

func openSessions(ctx context.Context, logger *slog.Logger) (service.SessionStore, func(), error) {
	if viper.GetBool("bot.memory_sessions") {
		return bot.NewMemorySessionStore(), func() {}, nil
	}

	store, err := storage.NewSQLiteStorage(config.StoragePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close session storage", "error", err)
		}
	}

	if err := store.Migrate(ctx); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to migrate session storage: %w", err)
	}

	if ttl := viper.GetDuration("bot.session_ttl"); ttl > 0 {
		pruned, err := store.PruneSessions(ctx, time.Now().Add(-ttl))
		if err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("failed to prune sessions: %w", err)
		}
		if pruned > 0 {
			logger.Info("Pruned stale sessions", "count", pruned)
		}
	}

	logger.Debug("Session storage ready", "path", store.Path())
	return store, closeStore, nil
}
