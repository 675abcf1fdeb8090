// Package bot runs the long-poll receive loop and the maintenance scheduler
// until the process is asked to stop.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"github.com/botiran/initinfobot/internal/config"
)

// Receiver is the part of the Bot API client the worker loop drives.
// telegram.Client implements it.
type Receiver interface {
	GetMe(ctx context.Context) (*models.User, error)
	DropPendingUpdates(ctx context.Context) error
	Start(ctx context.Context)
}

// Bot owns the lifecycle of the receive loop and the scheduler.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	client    Receiver
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot. scheduler may be nil.
func NewBot(logger *slog.Logger, cfg *config.Config, client Receiver, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		client:    client,
		scheduler: scheduler,
	}
}

// Run receives updates until ctx is cancelled. Handlers run one at a time on
// the polling goroutine. It returns nil on a clean shutdown.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot identity: %w", err)
	}
	b.logger.InfoContext(ctx, "Bot started", "username", "@"+me.Username, "bot_id", me.ID)

	if b.cfg.Telegram.DropPendingUpdates {
		if err := b.client.DropPendingUpdates(ctx); err != nil {
			return fmt.Errorf("failed to drop pending updates: %w", err)
		}
		b.logger.InfoContext(ctx, "Dropped pending updates")
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.InfoContext(gCtx, "Starting receive loop")
		b.client.Start(gCtx)

		if gCtx.Err() == nil {
			return errors.New("receive loop stopped unexpectedly")
		}
		b.logger.InfoContext(gCtx, "Receive loop stopped")
		return nil
	})

	if b.scheduler != nil {
		g.Go(func() error {
			if err := b.scheduler.Start(gCtx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot stopped gracefully")
	return nil
}
