// Package scheduler runs the background jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"gudlft/internal/application/orchestrators"
)

// ReminderJobName names the daily reminder job.
const ReminderJobName = "competition_reminders"

// jobTimeout bounds one reminder run.
const jobTimeout = 2 * time.Minute

// ReminderSchedule says when reminders go out and how far ahead they look.
type ReminderSchedule struct {
	Hour, Minute uint
	Window       time.Duration
}

// NewReminderScheduler returns a started scheduler that sends competition
// reminders once a day.
// PRE: deps holds every store and a sender
// POST: Caller must Shutdown the returned scheduler
func NewReminderScheduler(schedule ReminderSchedule, deps orchestrators.SendCompetitionRemindersDeps) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(schedule.Hour, schedule.Minute, 0))),
		gocron.NewTask(func() { RunReminders(context.Background(), schedule.Window, deps) }),
		gocron.WithName(ReminderJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule reminders: %w", err)
	}

	s.Start()
	slog.Info("reminder_event", "action", "scheduled", "at", fmt.Sprintf("%02d:%02d", schedule.Hour, schedule.Minute), "window", schedule.Window.String())
	return s, nil
}

// RunReminders performs one reminder pass and logs the outcome.
func RunReminders(ctx context.Context, window time.Duration, deps orchestrators.SendCompetitionRemindersDeps) (orchestrators.SendCompetitionRemindersResult, error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	result, err := orchestrators.ExecuteSendCompetitionReminders(ctx, orchestrators.SendCompetitionRemindersInput{Window: window}, deps)
	if err != nil {
		slog.Error("reminder_event", "action", "run_failed", "error", err)
		return result, err
	}
	slog.Info("reminder_event", "action", "run_complete",
		"competitions", result.Competitions,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, nil
}
