package cleanup

import (
	"context"
	"strconv"
	"testing"
	"time"

	"bamboobot/internal/kit"
	"bamboobot/internal/services/scheduler"
	"bamboobot/internal/storage"
	"bamboobot/pkg/logx"
)

// fakeMessenger serves one channel backed by an in-memory message list.
type fakeMessenger struct {
	channelErr error
	messages   []kit.Message

	fetchRounds  int
	deleteRounds []int
}

func (f *fakeMessenger) FetchChannel(ctx context.Context, id string) (kit.Channel, error) {
	if f.channelErr != nil {
		return kit.Channel{}, f.channelErr
	}
	return kit.Channel{ID: id, Name: "general"}, nil
}

func (f *fakeMessenger) FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]kit.Message, error) {
	f.fetchRounds++
	if len(f.messages) < limit {
		limit = len(f.messages)
	}
	out := make([]kit.Message, limit)
	copy(out, f.messages[:limit])
	return out, nil
}

func (f *fakeMessenger) BulkDelete(ctx context.Context, channelID string, ids []string) (int, error) {
	f.deleteRounds = append(f.deleteRounds, len(ids))
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.messages[:0]
	for _, m := range f.messages {
		if !drop[m.ID] {
			kept = append(kept, m)
		}
	}
	deleted := len(f.messages) - len(kept)
	f.messages = kept
	return deleted, nil
}

func (f *fakeMessenger) SendMessage(ctx context.Context, to kit.Target, content string) error {
	return nil
}

func (f *fakeMessenger) FetchUser(ctx context.Context, id string) (kit.User, error) {
	return kit.User{ID: id}, nil
}

func messagesAged(n int, age time.Duration) []kit.Message {
	out := make([]kit.Message, n)
	ts := time.Now().Add(-age)
	for i := range out {
		out[i] = kit.Message{ID: strconv.Itoa(i), Timestamp: ts}
	}
	return out
}

func newService(t *testing.T, msgr kit.Messenger) (*Service, *scheduler.Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.Config{Dir: t.TempDir()}, logx.Nop())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	jobs := scheduler.New(scheduler.Config{}, logx.Nop())
	return New(msgr, jobs, store, logx.Nop()), jobs, store
}

func TestSweepBatches(t *testing.T) {
	t.Parallel()
	f := &fakeMessenger{messages: messagesAged(250, time.Hour)}
	s, _, _ := newService(t, f)

	total, err := s.Sweep(context.Background(), "chan-1", 0)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if total != 250 {
		t.Fatalf("total = %d, want 250", total)
	}
	want := []int{100, 100, 50}
	if len(f.deleteRounds) != len(want) {
		t.Fatalf("delete rounds = %v, want %v", f.deleteRounds, want)
	}
	for i := range want {
		if f.deleteRounds[i] != want[i] {
			t.Fatalf("delete rounds = %v, want %v", f.deleteRounds, want)
		}
	}
}

func TestSweepSkipsOldMessages(t *testing.T) {
	t.Parallel()
	f := &fakeMessenger{messages: messagesAged(40, 15*24*time.Hour)}
	s, _, _ := newService(t, f)

	total, err := s.Sweep(context.Background(), "chan-1", 0)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0 (messages beyond the eligibility window)", total)
	}
	if len(f.deleteRounds) != 0 {
		t.Fatalf("no delete should have been issued, got %v", f.deleteRounds)
	}
}

func TestSweepHonorsMaxCount(t *testing.T) {
	t.Parallel()
	f := &fakeMessenger{messages: messagesAged(300, time.Hour)}
	s, _, _ := newService(t, f)

	total, err := s.Sweep(context.Background(), "chan-1", 150)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if total != 200 {
		// two full rounds; the cap is checked between rounds
		t.Fatalf("total = %d, want 200", total)
	}
}

func TestRunSelfHealsGoneChannel(t *testing.T) {
	t.Parallel()
	f := &fakeMessenger{channelErr: kit.ErrChannelNotFound}
	s, jobs, store := newService(t, f)

	entries := map[string]storage.AutoCleanEntry{
		"gone":  {ChannelName: "old", GuildID: "g", IntervalHours: 6},
		"alive": {ChannelName: "new", GuildID: "g", IntervalHours: 6},
	}
	if err := storage.Save(store, storage.NSAutoClean, entries); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = jobs.Register("gone", scheduler.Interval(6), s.Run)
	_ = jobs.Register("alive", scheduler.Interval(6), s.Run)

	if err := s.Run(context.Background(), "gone"); err != nil {
		t.Fatalf("Run should swallow the gone-channel condition, got %v", err)
	}

	if jobs.Armed("gone") {
		t.Fatal("gone channel should have been cancelled")
	}
	if !jobs.Armed("alive") {
		t.Fatal("unrelated job must stay armed")
	}

	// A restart restores one fewer timer.
	jobs2 := scheduler.New(scheduler.Config{}, logx.Nop())
	restored := 0
	for id, e := range storage.Load[storage.AutoCleanEntry](store, storage.NSAutoClean) {
		if err := jobs2.Register(id, scheduler.Interval(e.IntervalHours), s.Run); err == nil {
			restored++
		}
	}
	if restored != 1 {
		t.Fatalf("restored = %d, want 1 after self-heal purge", restored)
	}
}

func TestRunKeepsScheduleOnTransientError(t *testing.T) {
	t.Parallel()
	f := &fakeMessenger{channelErr: context.DeadlineExceeded}
	s, jobs, _ := newService(t, f)
	_ = jobs.Register("chan-1", scheduler.Interval(6), s.Run)

	if err := s.Run(context.Background(), "chan-1"); err == nil {
		t.Fatal("transient error should surface to the scheduler log")
	}
	if !jobs.Armed("chan-1") {
		t.Fatal("transient failure must not cancel the job")
	}
}
