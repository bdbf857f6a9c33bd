// Package notify delivers each user's daily calendar agenda when their
// notification job fires.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bamboobot/internal/kit"
	"bamboobot/internal/services/calendar"
	"bamboobot/internal/storage"
	"bamboobot/pkg/logx"
)

// CredentialManager produces an always-valid credential for downstream
// calls. Implemented by calendar.Auth.
type CredentialManager interface {
	EnsureValid(ctx context.Context, tok storage.CalendarToken) (storage.CalendarToken, bool, error)
}

const agendaHeader = "📅 오늘의 일정"

type Service struct {
	log    logx.Logger
	msgr   kit.Messenger
	creds  CredentialManager
	events calendar.EventSource
	store  *storage.Store
	loc    *time.Location

	now func() time.Time
}

func New(msgr kit.Messenger, creds CredentialManager, events calendar.EventSource, store *storage.Store, loc *time.Location, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{log: log, msgr: msgr, creds: creds, events: events, store: store, loc: loc, now: time.Now}
}

// Run is the scheduler handler for notification jobs; key is the user ID.
//
// A missing or disabled settings entry is a silent skip: a stale timer
// firing once more after its entry was removed must not error loudly. An
// expired credential skips this occurrence only; the user may relink
// before tomorrow's firing, so the schedule stays armed.
func (s *Service) Run(ctx context.Context, userID string) error {
	settings := storage.Load[storage.CalendarSettings](s.store, storage.NSCalendarSettings)
	cfg, ok := settings[userID]
	if !ok || !cfg.Enabled {
		s.log.Debug("notification skipped (no enabled settings)", logx.String("user", userID))
		return nil
	}

	tokens := storage.Load[storage.CalendarToken](s.store, storage.NSCalendarTokens)
	tok, ok := tokens[userID]
	if !ok {
		s.log.Debug("notification skipped (no linked credential)", logx.String("user", userID))
		return nil
	}

	valid, refreshed, err := s.creds.EnsureValid(ctx, tok)
	if err != nil {
		if errors.Is(err, calendar.ErrCredentialExpired) {
			s.log.Warn("notification skipped (credential needs relink)",
				logx.String("user", userID), logx.Err(err))
			return nil
		}
		return fmt.Errorf("credential check for %s: %w", userID, err)
	}
	if refreshed {
		// Persist the refreshed token before using it, so a crash after the
		// calendar call cannot lose it.
		tokens[userID] = valid
		if err := storage.Save(s.store, storage.NSCalendarTokens, tokens); err != nil {
			s.log.Warn("failed persisting refreshed credential",
				logx.String("user", userID), logx.Err(err))
		}
	}

	day := s.now().In(s.loc)
	events, err := s.events.ListEventsForDay(ctx, valid, day)
	if err != nil {
		return fmt.Errorf("agenda fetch for %s: %w", userID, err)
	}

	target := kit.ToUser(userID)
	if cfg.ChannelID != "" {
		target = kit.ToChannel(cfg.ChannelID)
	}
	content := agendaHeader + "\n" + calendar.FormatAgenda(events)
	if err := s.msgr.SendMessage(ctx, target, content); err != nil {
		return fmt.Errorf("agenda delivery for %s: %w", userID, err)
	}

	s.log.Info("agenda delivered", logx.String("user", userID), logx.Int("events", len(events)))
	return nil
}
