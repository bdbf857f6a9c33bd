package calendar

import (
	"fmt"
	"strings"
)

// User-facing fixed strings (Korean, matching the bot's audience).
const (
	noEventsMessage = "오늘 일정이 없습니다."
	allDayMarker    = "종일"
	untitledEvent   = "(제목 없음)"
)

// FormatEventTime renders "HH:MM - HH:MM", or the all-day marker for
// events without a time of day.
func FormatEventTime(ev Event) string {
	if ev.AllDay {
		return allDayMarker
	}
	return fmt.Sprintf("%02d:%02d - %02d:%02d",
		ev.Start.Hour(), ev.Start.Minute(), ev.End.Hour(), ev.End.Minute())
}

// FormatAgenda renders one line per event, or the fixed no-events sentence.
func FormatAgenda(events []Event) string {
	if len(events) == 0 {
		return noEventsMessage
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		title := ev.Title
		if strings.TrimSpace(title) == "" {
			title = untitledEvent
		}
		lines = append(lines, FormatEventTime(ev)+" "+title)
	}
	return strings.Join(lines, "\n")
}
