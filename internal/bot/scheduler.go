package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/botiran/initinfobot/internal/bot/tasks"
	"github.com/botiran/initinfobot/internal/config"
	"github.com/botiran/initinfobot/internal/logger"
)

// ErrSchedulerRunning is returned by Start on a scheduler that is already running.
var ErrSchedulerRunning = errors.New("scheduler is already running")

// Scheduler runs the maintenance tasks on their cron schedules.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler for the tasks in taskMap. Which of them run,
// and when, is decided by cfg.
func NewScheduler(log *slog.Logger, cfg config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(logger.NewGocronLogger(log)))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start registers every enabled task and starts the scheduler. A task that
// cannot be scheduled is logged and skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSchedulerRunning
	}

	scheduled := 0
	for _, name := range sortedTaskNames(s.cfg.Tasks) {
		taskConfig := s.cfg.Tasks[name]
		if !taskConfig.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", name)
			continue
		}

		taskFunc, ok := s.taskMap[name]
		if !ok {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", name)
			continue
		}

		_, err := s.scheduler.NewJob(
			gocron.CronJob(taskConfig.Schedule, true),
			gocron.NewTask(s.runTask, ctx, name, taskFunc),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", name, "schedule", taskConfig.Schedule, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", name, "schedule", taskConfig.Schedule)
		scheduled++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduled)

	return nil
}

func (s *Scheduler) runTask(ctx context.Context, name string, task tasks.ScheduledTaskFunc) {
	s.logger.DebugContext(ctx, "Running scheduled task", "task_name", name)
	startTime := time.Now()

	if err := task(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Scheduled task failed", "task_name", name, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
}

// Jobs returns the names of the scheduled jobs.
func (s *Scheduler) Jobs() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	sort.Strings(names)
	return names
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info("Scheduler stopped")
	return nil
}

func sortedTaskNames(m map[string]config.TaskConfig) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
