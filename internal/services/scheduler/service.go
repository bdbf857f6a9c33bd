package scheduler

import (
	"context"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"bamboobot/pkg/logx"
)

// Handler is invoked with the job's key on every firing.
type Handler func(ctx context.Context, key string) error

type Config struct {
	// Timezone is the default IANA zone for daily triggers that do not
	// carry their own. Empty means the process-local zone.
	Timezone string
}

type entry struct {
	id   cron.EntryID
	spec string

	// running guards against a handler overrunning its own period.
	mu      sync.Mutex
	running bool
}

// Service owns the live timers. Only declarative schedule data is
// persisted elsewhere; everything here is rebuilt via RestoreAll on start.
type Service struct {
	mu  sync.Mutex
	log logx.Logger
	cfg Config

	c       *cron.Cron
	entries map[string]*entry

	runCtx    context.Context
	runCancel context.CancelFunc
	started   bool
}

func New(cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		} else {
			log.Warn("invalid scheduler timezone; falling back to local", logx.String("tz", tz), logx.Err(err))
		}
	}
	return &Service{
		log:     log,
		cfg:     cfg,
		c:       cron.New(cron.WithLocation(loc)),
		entries: map[string]*entry{},
	}
}

// Start begins firing armed entries. Entries registered before Start fire
// once the runner is up.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	s.started = true
	s.c.Start()
	s.log.Info("scheduler started", logx.Int("entries", len(s.entries)))
}

// Stop halts firing and waits (bounded by ctx) for in-flight handlers.
// In-flight handlers are allowed to finish; partial work is harmless.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.runCancel
	s.runCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
		// jobs continue to drain in background
	}
	s.log.Info("scheduler stopped")
}

// Register arms (or re-arms) the timer for key. At most one live timer
// exists per key: the prior entry, if any, is cancelled first.
func (s *Service) Register(key string, tr Trigger, handler Handler) error {
	spec, err := tr.spec(s.cfg.Timezone)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[key]; ok {
		s.c.Remove(prev.id)
		delete(s.entries, key)
	}

	e := &entry{spec: spec}
	id, err := s.c.AddFunc(spec, func() {
		s.fire(key, e, handler)
	})
	if err != nil {
		return err
	}
	e.id = id
	s.entries[key] = e
	s.log.Debug("job armed", logx.String("key", key), logx.String("spec", spec))
	return nil
}

// Cancel disarms the timer for key. It reports whether a timer was armed;
// cancelling an unarmed key is a no-op.
func (s *Service) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.c.Remove(e.id)
	delete(s.entries, key)
	s.log.Debug("job cancelled", logx.String("key", key))
	return true
}

// RestoreAll re-arms every entry in triggers and returns the count armed.
// Callers filter disabled entries before building the map.
func (s *Service) RestoreAll(triggers map[string]Trigger, handler Handler) int {
	restored := 0
	for key, tr := range triggers {
		if err := s.Register(key, tr, handler); err != nil {
			s.log.Warn("job restore failed", logx.String("key", key), logx.Err(err))
			continue
		}
		restored++
	}
	return restored
}

// Armed reports whether key has a live timer.
func (s *Service) Armed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Count reports the number of armed timers.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// fire runs one occurrence. cron invokes each job on its own goroutine, so
// nothing here can delay other entries or the next occurrence of this one.
func (s *Service) fire(key string, e *entry, handler Handler) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		s.log.Debug("firing skipped (previous run still in flight)", logx.String("key", key))
		return
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in job handler",
				logx.String("key", key),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())))
		}
	}()

	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	if err := handler(ctx, key); err != nil {
		s.log.Warn("job handler failed",
			logx.String("key", key),
			logx.Duration("took", time.Since(start)),
			logx.Err(err))
	}
}
