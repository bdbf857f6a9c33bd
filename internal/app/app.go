// Package app wires configuration, logging, the Discord adapter, and the
// scheduling services into one process.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bamboobot/internal/adapters/discord"
	"bamboobot/internal/config"
	"bamboobot/internal/lookup"
	"bamboobot/internal/services/calendar"
	"bamboobot/internal/services/cleanup"
	"bamboobot/internal/services/cooldown"
	"bamboobot/internal/services/notify"
	"bamboobot/internal/services/scheduler"
	"bamboobot/internal/storage"
	"bamboobot/pkg/logx"
)

const defaultTimezone = "Asia/Seoul"

type App struct {
	cfgPath string
	cfgm    *config.Manager

	log  logx.Logger
	logs *logx.Service

	adapter *discord.Adapter
	store   *storage.Store

	cleanJobs  *scheduler.Service
	notifyJobs *scheduler.Service
	cooldowns  *cooldown.Tracker
	cleaner    *cleanup.Service
	notifier   *notify.Service

	auth   *calendar.Auth
	events calendar.EventSource
	loc    *time.Location
	tz     string

	handlers *discord.Handlers

	runCancel context.CancelFunc
	wg        sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(cfg.Scheduler.Timezone)
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("scheduler.timezone: invalid %q: %w", tz, err)
	}

	// The adapter logs to console until the logging service exists; the
	// service itself needs the adapter as its Discord sink.
	bootLog := logx.NewConsole(cfg.Logging.Level).With(logx.String("comp", "discord"))
	adapter, err := discord.New(discord.Config{
		Token:      cfg.Discord.Token,
		RatePerSec: float64(cfg.Discord.RatePerSec),
	}, bootLog)
	if err != nil {
		return nil, err
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Discord: logx.DiscordConfig{
			Enabled:    cfg.Logging.Discord.Enabled,
			MinLevel:   cfg.Logging.Discord.MinLevel,
			RatePerSec: cfg.Logging.Discord.RatePerSec,
		},
	}, adapter)
	log = log.With(logx.String("comp", "app"))

	store, err := storage.Open(storage.Config{Dir: cfg.Storage.Dir}, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	cleanJobs := scheduler.New(scheduler.Config{Timezone: tz}, log.With(logx.String("comp", "clean_jobs")))
	notifyJobs := scheduler.New(scheduler.Config{Timezone: tz}, log.With(logx.String("comp", "notify_jobs")))
	cooldowns := cooldown.New()

	cleaner := cleanup.New(adapter, cleanJobs, store, log.With(logx.String("comp", "cleanup")))

	var auth *calendar.Auth
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		auth, err = calendar.NewAuth(calendar.AuthConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		})
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("google credentials missing; calendar commands disabled")
	}
	events := calendar.NewGoogleEvents(log.With(logx.String("comp", "calendar")))

	var creds notify.CredentialManager
	if auth != nil {
		creds = auth
	}
	notifier := notify.New(adapter, creds, events, store, loc, log.With(logx.String("comp", "notify")))

	throttle, err := anonCooldown(cfg)
	if err != nil {
		return nil, err
	}
	handlers := discord.NewHandlers(discord.Deps{
		Log:          log.With(logx.String("comp", "commands")),
		Adapter:      adapter,
		Wiki:         lookup.NewWikiClient(log.With(logx.String("comp", "wiki"))),
		Namu:         lookup.NewNamuClient(log.With(logx.String("comp", "namu"))),
		Store:        store,
		CleanJobs:    cleanJobs,
		NotifyJobs:   notifyJobs,
		Cleaner:      cleaner,
		Notifier:     notifier,
		Cooldowns:    cooldowns,
		Auth:         auth,
		Events:       events,
		Loc:          loc,
		Timezone:     tz,
		AnonCooldown: throttle,
	})

	return &App{
		cfgPath:    cfgPath,
		cfgm:       cfgm,
		log:        log,
		logs:       logs,
		adapter:    adapter,
		store:      store,
		cleanJobs:  cleanJobs,
		notifyJobs: notifyJobs,
		cooldowns:  cooldowns,
		cleaner:    cleaner,
		notifier:   notifier,
		auth:       auth,
		events:     events,
		loc:        loc,
		tz:         tz,
		handlers:   handlers,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	a.runCancel = cancel

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if strings.TrimSpace(cfg.Discord.Token) == "" {
			return fmt.Errorf("discord.token is required")
		}
		if cfg.Discord.RatePerSec < 0 {
			return fmt.Errorf("discord.rate_per_sec must be >= 0")
		}
		if tz := strings.TrimSpace(cfg.Scheduler.Timezone); tz != "" {
			if _, err := time.LoadLocation(tz); err != nil {
				return fmt.Errorf("scheduler.timezone: invalid %q: %w", tz, err)
			}
		}
		if _, err := config.ParseDurationField("cooldown.anon", cfg.Cooldown.Anon); err != nil {
			return err
		}
		return nil
	})

	a.handlers.Bind()
	if err := a.adapter.Start(ctx); err != nil {
		return err
	}
	if err := a.adapter.RegisterCommands(ctx); err != nil {
		return err
	}
	if target := a.cfgm.Get().Discord.LogChannelID; target != "" {
		a.logs.SetDiscordTarget(target)
	}

	a.cleanJobs.Start(runCtx)
	a.notifyJobs.Start(runCtx)
	a.restoreSchedules()

	// Hot reload: only logging settings apply live. Schedules come from
	// the settings namespaces, not from config, so reload never rearms.
	sub := a.cfgm.Subscribe(8)
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-runCtx.Done():
				return
			case cfg, ok := <-sub:
				if !ok {
					return
				}
				a.logs.Apply(logx.Config{
					Level:   cfg.Logging.Level,
					Console: cfg.Logging.Console,
					File: logx.FileConfig{
						Enabled: cfg.Logging.File.Enabled,
						Path:    cfg.Logging.File.Path,
					},
					Discord: logx.DiscordConfig{
						Enabled:    cfg.Logging.Discord.Enabled,
						MinLevel:   cfg.Logging.Discord.MinLevel,
						RatePerSec: cfg.Logging.Discord.RatePerSec,
					},
				})
				a.logs.SetDiscordTarget(cfg.Discord.LogChannelID)
				a.log.Info("config reloaded")
			}
		}
	}()
	go func() {
		defer a.wg.Done()
		if err := a.cfgm.Watch(runCtx); err != nil && runCtx.Err() == nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	a.log.Info("app started",
		logx.String("timezone", a.tz),
		logx.Int("clean_jobs", a.cleanJobs.Count()),
		logx.Int("notify_jobs", a.notifyJobs.Count()))
	return nil
}

// anonCooldown reads the anonymous-posting throttle from config.
func anonCooldown(cfg *config.Config) (time.Duration, error) {
	return config.ParseDurationOrDefault("cooldown.anon", cfg.Cooldown.Anon, time.Minute)
}

// cleanTriggers builds the trigger map for persisted auto-clean entries.
func cleanTriggers(entries map[string]storage.AutoCleanEntry) map[string]scheduler.Trigger {
	out := make(map[string]scheduler.Trigger, len(entries))
	for channelID, e := range entries {
		out[channelID] = scheduler.Interval(e.IntervalHours)
	}
	return out
}

// notifyTriggers builds the trigger map for persisted notification
// settings. Disabled entries and entries without a time never arm.
func notifyTriggers(settings map[string]storage.CalendarSettings, tz string) map[string]scheduler.Trigger {
	out := make(map[string]scheduler.Trigger, len(settings))
	for userID, s := range settings {
		if !s.Enabled || s.NotificationTime == "" {
			continue
		}
		out[userID] = scheduler.DailyAt(s.NotificationTime, tz)
	}
	return out
}

// restoreSchedules re-arms every persisted job after a restart. Entries the
// registry rejects (bad trigger data) are logged by RestoreAll and skipped,
// never fatal.
func (a *App) restoreSchedules() {
	cleanEntries := storage.Load[storage.AutoCleanEntry](a.store, storage.NSAutoClean)
	restored := a.cleanJobs.RestoreAll(cleanTriggers(cleanEntries), a.cleaner.Run)
	a.log.Info("auto clean schedules restored",
		logx.Int("restored", restored), logx.Int("persisted", len(cleanEntries)))

	if a.auth == nil {
		return
	}
	settings := storage.Load[storage.CalendarSettings](a.store, storage.NSCalendarSettings)
	restored = a.notifyJobs.RestoreAll(notifyTriggers(settings, a.tz), a.notifier.Run)
	a.log.Info("notification schedules restored",
		logx.Int("restored", restored), logx.Int("persisted", len(settings)))
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("stopping")
	if a.runCancel != nil {
		a.runCancel()
	}

	// Bounded steps: one stalled component must not hold the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context)) {
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()
		done := make(chan struct{})
		go func() {
			defer close(done)
			fn(stepCtx)
		}()
		select {
		case <-done:
			a.log.Debug("stop step done", logx.String("name", name))
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)",
				logx.String("name", name), logx.Err(stepCtx.Err()))
		}
	}

	step("clean_jobs", 3*time.Second, func(c context.Context) { a.cleanJobs.Stop(c) })
	step("notify_jobs", 3*time.Second, func(c context.Context) { a.notifyJobs.Stop(c) })
	step("cooldowns", time.Second, func(context.Context) { a.cooldowns.Stop() })
	step("adapter", 2*time.Second, func(c context.Context) { _ = a.adapter.Stop(c) })

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.log.Warn("background loops still draining", logx.Err(ctx.Err()))
	}

	a.log.Info("stopped")
	_ = a.logs.Close()
	return nil
}
