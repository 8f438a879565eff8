package tasks

import (
	"context"
)

// ScheduledTaskFunc is the standard signature for scheduled tasks. The
// context provided by the scheduler must be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the registry of scheduled tasks, keyed by
// the task names used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"storage_quota_check": newStorageQuotaTask(deps),
		"usage_stats_report":  newUsageStatsTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
