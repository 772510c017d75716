package players

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

const backupTimeLayout = "20060102T150405Z"

// Backup writes the current players document to
// <dir>/players-<UTC timestamp>.json and returns the file path.
func Backup(ctx context.Context, repo Repository, dir string, now time.Time) (string, error) {
	ps, err := repo.List(ctx)
	if err != nil {
		return "", err
	}
	b, err := Encode(ps)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("players-%s.json", now.UTC().Format(backupTimeLayout)))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ScheduleBackups registers a backup job on c. An empty schedule disables it.
func ScheduleBackups(ctx context.Context, c *cron.Cron, schedule string, repo Repository, dir string) (cron.EntryID, error) {
	if schedule == "" {
		slog.Info("[ScheduleBackups] - no backup schedule configured, skipping")
		return 0, nil
	}
	slog.Info(fmt.Sprintf("[ScheduleBackups] - backing up players to '%s' on '%s'", dir, schedule))
	return c.AddFunc(schedule, func() {
		path, err := Backup(ctx, repo, dir, time.Now())
		if err != nil {
			slog.Error(fmt.Sprintf("[ScheduleBackups] - backup failed : %s", err.Error()))
			return
		}
		slog.Info("[ScheduleBackups] - players backed up to " + path)
	})
}
