package calendar

import (
	"fmt"
	"strings"
	"time"
)

// relative date keywords: today, tomorrow, day after tomorrow.
var dateKeywords = map[string]int{
	"오늘": 0,
	"내일": 1,
	"모레": 2,
}

// ParseDate resolves user date input relative to now. Accepted forms:
// "YYYY-MM-DD", "MM-DD" (current year), one of the relative keywords, or
// empty (today). Anything else is rejected before any state changes.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	loc := now.Location()
	if s == "" {
		return midnight(now), nil
	}

	if days, ok := dateKeywords[s]; ok {
		return midnight(now.AddDate(0, 0, days)), nil
	}

	if len(s) == 10 {
		if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
			return d, nil
		}
	}
	if len(s) == 5 {
		if d, err := time.ParseInLocation("01-02", s, loc); err == nil {
			return time.Date(now.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
