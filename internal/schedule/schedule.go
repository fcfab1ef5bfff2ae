// Package schedule runs the daemon's recurring jobs on a cron clock.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logger"
)

// Job is one unit of scheduled work. The context is cancelled when the
// scheduler stops.
type Job func(ctx context.Context) error

// Scheduler wraps a seconds-precision cron in a fixed location.
type Scheduler struct {
	cron    *cron.Cron
	loc     *time.Location
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// New creates a scheduler whose specs are interpreted in loc.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
		),
		loc:     loc,
		ctx:     ctx,
		cancel:  cancel,
		timeout: constants.CommandTimeout,
	}
}

// Daily registers job at HH:MM every day.
func (s *Scheduler) Daily(name, timeStr string, job Job) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.add(name, spec, job)
}

// Weekly registers job at HH:MM on the given weekday.
func (s *Scheduler) Weekly(name string, day time.Weekday, timeStr string, job Job) (cron.EntryID, error) {
	spec, err := buildWeeklySpec(day, timeStr)
	if err != nil {
		return 0, err
	}
	return s.add(name, spec, job)
}

// Every registers job at a fixed interval of at least one second.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.add(name, fmt.Sprintf("@every %ds", seconds), job)
}

func (s *Scheduler) add(name, spec string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return 0, fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	logger.Debug("Scheduled job", "job", name, "spec", spec)
	return id, nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		logger.Error("Scheduled job failed", "job", name, "error", err)
		return
	}
	logger.Info("Scheduled job finished", "job", name, "took", time.Since(start))
}

// Next returns the next activation of id, or the zero time when the
// scheduler has not started.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Location returns the scheduler's time zone.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels in-flight jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

func parseClock(timeStr string) (hour, minute int, err error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return hour, minute, nil
}

// cron format: second minute hour dom month dow
func buildDailySpec(timeStr string) (string, error) {
	hour, minute, err := parseClock(timeStr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

func buildWeeklySpec(day time.Weekday, timeStr string) (string, error) {
	if day < time.Sunday || day > time.Saturday {
		return "", fmt.Errorf("invalid weekday %d", day)
	}
	hour, minute, err := parseClock(timeStr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0 %d %d * * %d", minute, hour, int(day)), nil
}

// cronLogger routes cron's own messages into the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
