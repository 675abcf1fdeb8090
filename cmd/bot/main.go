// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/botiran/initinfobot/internal/bot"
	"github.com/botiran/initinfobot/internal/bot/handlers"
	"github.com/botiran/initinfobot/internal/bot/tasks"
	"github.com/botiran/initinfobot/internal/config"
	"github.com/botiran/initinfobot/internal/database"
	"github.com/botiran/initinfobot/internal/logger"
	"github.com/botiran/initinfobot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "initinfobot",
		Short:         "Telegram bot that reports on the chats you added it to",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to configuration file")

	return cmd
}

// run wires the components together and blocks until ctx is cancelled or a
// component fails. Every returned error has already been logged.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return err
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	client, err := telegram.NewClient(cfg.Telegram, log, tgbot.WithMiddlewares(logger.Middleware(log)))
	if err != nil {
		log.Error("Failed to create Telegram client", "error", err)
		return err
	}

	me, err := client.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	dispatcher := handlers.NewDispatcher(handlers.HandlerDeps{
		Logger:      log,
		Config:      cfg,
		Store:       store,
		Platform:    client,
		BotUsername: me.Username,
	})
	client.Handle(dispatcher.Handle)

	sched, err := bot.NewScheduler(log, cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	return bot.NewBot(log, cfg, client, sched).Run(ctx)
}
