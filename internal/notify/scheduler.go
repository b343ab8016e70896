// Package notify runs the water-reminder schedule. Delivery is a
// callback; the web front end surfaces reminders through the browser
// Notification API, the CLI just prints them.
package notify

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/logger"
)

// Scheduler fires the reminder callback every Frequency minutes while
// the clock is inside the configured window. Apply replaces the active
// schedule; Stop tears it down.
type Scheduler struct {
	log    *logger.Logger
	remind func()

	mu     sync.Mutex
	cancel chan struct{}
	active bool
}

func NewScheduler(log *logger.Logger, remind func()) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{log: log, remind: remind}
}

// Apply restarts the schedule from the given settings. Disabled
// settings stop any running schedule.
func (s *Scheduler) Apply(settings logbook.NotificationSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if !settings.Enabled {
		s.log.Debugw("reminders disabled")
		return
	}

	cancel := make(chan struct{})
	s.cancel = cancel
	s.active = true
	s.log.Infow("reminder schedule applied",
		"frequencyMinutes", settings.Frequency,
		"window", settings.StartTime+"-"+settings.EndTime,
	)

	go s.run(settings, cancel)
}

// Active reports whether a schedule is currently running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Stop halts the running schedule, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
	s.active = false
}

func (s *Scheduler) run(settings logbook.NotificationSettings, cancel chan struct{}) {
	interval := time.Duration(settings.Frequency) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case now := <-ticker.C:
			if !InWindow(now, settings.StartTime, settings.EndTime) {
				continue
			}
			s.log.Debugw("reminder fired", "at", now.Format("15:04"))
			if s.remind != nil {
				s.remind()
			}
		}
	}
}

// InWindow reports whether t's local wall-clock time falls inside the
// [start, end] window. A window with end before start spans midnight:
// 22:00-06:00 covers late evening and early morning. Malformed bounds
// disable the window check entirely.
func InWindow(t time.Time, start, end string) bool {
	startMin, okStart := clockMinutes(start)
	endMin, okEnd := clockMinutes(end)
	if !okStart || !okEnd {
		return true
	}

	now := t.Hour()*60 + t.Minute()
	if startMin <= endMin {
		return now >= startMin && now <= endMin
	}
	return now >= startMin || now <= endMin
}

// clockMinutes accepts the same HH:mm grammar the settings validator
// accepts, one-digit hours included, so a stored window is never
// treated as malformed here.
func clockMinutes(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
