package tasks

import (
	"context"
	"fmt"
)

// newStoreStatsTask logs how many users and chats are stored.
func newStoreStatsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", TaskStoreStats)

	return func(ctx context.Context) error {
		if err := deps.Store.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}

		stats, err := deps.Store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read store stats: %w", err)
		}

		log.InfoContext(ctx, "Store stats", "users", stats.Users, "chats", stats.Chats)
		return nil
	}
}
