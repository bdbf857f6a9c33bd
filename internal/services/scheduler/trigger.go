package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Trigger describes when a job fires. Exactly one of Every/At is set.
type Trigger struct {
	// Every fires on a fixed interval, first occurrence one interval from
	// registration.
	Every time.Duration

	// At fires daily at the given wall-clock time ("HH:mm") in Timezone.
	// The next occurrence is recomputed in the zone after every firing, so
	// daylight-saving transitions shift the fire time with the wall clock.
	At       string
	Timezone string
}

// Interval is the cleanup-job trigger.
func Interval(hours int) Trigger {
	return Trigger{Every: time.Duration(hours) * time.Hour}
}

// DailyAt is the notification-job trigger.
func DailyAt(hhmm, timezone string) Trigger {
	return Trigger{At: hhmm, Timezone: timezone}
}

// spec renders the trigger as a cron spec. Daily triggers carry their zone
// via the CRON_TZ prefix so each entry is evaluated in its own location.
func (tr Trigger) spec(defaultTZ string) (string, error) {
	if tr.Every > 0 {
		return "@every " + tr.Every.String(), nil
	}
	h, m, err := ParseTimeOfDay(tr.At)
	if err != nil {
		return "", err
	}
	tz := strings.TrimSpace(tr.Timezone)
	if tz == "" {
		tz = strings.TrimSpace(defaultTZ)
	}
	if tz == "" {
		return fmt.Sprintf("%d %d * * *", m, h), nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return fmt.Sprintf("CRON_TZ=%s %d %d * * *", tz, m, h), nil
}

// ParseTimeOfDay validates a 24-hour "HH:mm" string.
func ParseTimeOfDay(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
