package tasks

import (
	"context"
)

// Task names, used as keys under scheduler.tasks in the config.
const (
	TaskSQLMaintenance = "sql_maintenance"
	TaskStoreStats     = "store_stats"
)

// ScheduledTaskFunc is the signature of a scheduled task. It should stop when ctx is done.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns every task keyed by its config name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		TaskSQLMaintenance: newSQLMaintenanceTask(deps),
		TaskStoreStats:     newStoreStatsTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
