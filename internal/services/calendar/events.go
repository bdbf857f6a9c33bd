package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"bamboobot/internal/storage"
	"bamboobot/pkg/logx"
)

// Event is one calendar entry, normalized away from the wire format.
type Event struct {
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
}

// EventSource is the event-listing collaborator consumed by dispatchers.
type EventSource interface {
	ListEventsForDay(ctx context.Context, tok storage.CalendarToken, day time.Time) ([]Event, error)
}

const maxEventsPerDay = 20

// GoogleEvents lists events from the user's primary Google calendar.
type GoogleEvents struct {
	log logx.Logger
}

func NewGoogleEvents(log logx.Logger) *GoogleEvents {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &GoogleEvents{log: log}
}

// ListEventsForDay returns the events between midnight and midnight of day,
// in day's location, ordered by start time. The credential must already be
// valid; this call never refreshes.
func (g *GoogleEvents) ListEventsForDay(ctx context.Context, tok storage.CalendarToken, day time.Time) ([]Event, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok.AccessToken})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("calendar client: %w", err)
	}

	loc := day.Location()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	res, err := svc.Events.List("primary").
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerDay).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("events list: %w", err)
	}

	out := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		ev, err := fromAPIEvent(item, loc)
		if err != nil {
			g.log.Debug("skipping unparseable event", logx.String("id", item.Id), logx.Err(err))
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func fromAPIEvent(item *gcal.Event, loc *time.Location) (Event, error) {
	ev := Event{Title: item.Summary}
	if item.Start == nil {
		return ev, fmt.Errorf("event %s has no start", item.Id)
	}

	if item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return ev, err
		}
		ev.Start = start.In(loc)
		if item.End != nil && item.End.DateTime != "" {
			end, err := time.Parse(time.RFC3339, item.End.DateTime)
			if err != nil {
				return ev, err
			}
			ev.End = end.In(loc)
		}
		return ev, nil
	}

	// Date-only events are all-day.
	ev.AllDay = true
	if item.Start.Date != "" {
		if d, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc); err == nil {
			ev.Start = d
		}
	}
	return ev, nil
}
