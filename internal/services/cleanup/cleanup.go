// Package cleanup deletes recent messages from configured channels, both
// on demand and on a recurring per-channel schedule.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bamboobot/internal/kit"
	"bamboobot/internal/services/scheduler"
	"bamboobot/internal/storage"
	"bamboobot/pkg/logx"
)

const (
	// BatchSize messages are fetched and deleted per round.
	BatchSize = 100

	// MaxMessageAge is the platform's bulk-delete eligibility window:
	// older messages cannot be bulk deleted and are left alone.
	MaxMessageAge = 14 * 24 * time.Hour
)

type Service struct {
	log   logx.Logger
	msgr  kit.Messenger
	jobs  *scheduler.Service
	store *storage.Store

	now func() time.Time
}

func New(msgr kit.Messenger, jobs *scheduler.Service, store *storage.Store, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{log: log, msgr: msgr, jobs: jobs, store: store, now: time.Now}
}

// Run is the scheduler handler for cleanup jobs; key is the channel ID.
// A gone channel cancels the job and purges its persisted entry; any other
// failure leaves the schedule armed for the next occurrence.
func (s *Service) Run(ctx context.Context, channelID string) error {
	total, err := s.Sweep(ctx, channelID, 0)
	if err != nil {
		if errors.Is(err, kit.ErrChannelNotFound) || errors.Is(err, kit.ErrNoAccess) {
			s.retire(channelID, err)
			return nil
		}
		return fmt.Errorf("auto clean %s: %w", channelID, err)
	}
	s.log.Info("auto clean finished", logx.String("channel", channelID), logx.Int("deleted", total))
	return nil
}

// Sweep repeatedly deletes batches of eligible messages until a round
// yields none or maxCount is reached (0 = no limit). It returns the total
// deleted.
func (s *Service) Sweep(ctx context.Context, channelID string, maxCount int) (int, error) {
	if _, err := s.msgr.FetchChannel(ctx, channelID); err != nil {
		return 0, err
	}

	total := 0
	for {
		msgs, err := s.msgr.FetchRecentMessages(ctx, channelID, BatchSize)
		if err != nil {
			return total, err
		}

		cutoff := s.now().Add(-MaxMessageAge)
		ids := make([]string, 0, len(msgs))
		for _, m := range msgs {
			if m.Timestamp.After(cutoff) {
				ids = append(ids, m.ID)
			}
		}
		if len(ids) == 0 {
			return total, nil
		}

		deleted, err := s.msgr.BulkDelete(ctx, channelID, ids)
		if err != nil {
			return total, err
		}
		total += deleted
		if deleted == 0 {
			return total, nil
		}
		if maxCount > 0 && total >= maxCount {
			return total, nil
		}
	}
}

// retire is the self-heal path: the channel is permanently unreachable, so
// both the live timer and the persisted entry go away.
func (s *Service) retire(channelID string, cause error) {
	s.jobs.Cancel(channelID)

	entries := storage.Load[storage.AutoCleanEntry](s.store, storage.NSAutoClean)
	if _, ok := entries[channelID]; ok {
		delete(entries, channelID)
		if err := storage.Save(s.store, storage.NSAutoClean, entries); err != nil {
			s.log.Warn("failed purging retired cleanup entry",
				logx.String("channel", channelID), logx.Err(err))
		}
	}
	s.log.Info("cleanup job retired (channel gone)",
		logx.String("channel", channelID), logx.Err(cause))
}
