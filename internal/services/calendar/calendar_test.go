package calendar

import (
	"testing"
	"time"

	"bamboobot/internal/storage"
)

func TestStaleBoundary(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	margin := 5 * time.Minute

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{name: "long lived", expiry: now.Add(time.Hour), want: false},
		{name: "exactly at margin", expiry: now.Add(margin), want: false},
		{name: "one second inside margin", expiry: now.Add(margin - time.Second), want: true},
		{name: "already expired", expiry: now.Add(-time.Minute), want: true},
		{name: "no expiry recorded", expiry: time.Time{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := storage.CalendarToken{ExpiresAt: tt.expiry}
			if got := staleAt(tok, margin, now); got != tt.want {
				t.Fatalf("staleAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatAgenda(t *testing.T) {
	t.Parallel()
	loc := time.UTC

	if got := FormatAgenda(nil); got != "오늘 일정이 없습니다." {
		t.Fatalf("empty agenda = %q", got)
	}

	timed := Event{
		Title: "Standup",
		Start: time.Date(2025, 6, 1, 9, 0, 0, 0, loc),
		End:   time.Date(2025, 6, 1, 10, 0, 0, 0, loc),
	}
	if got := FormatAgenda([]Event{timed}); got != "09:00 - 10:00 Standup" {
		t.Fatalf("timed agenda = %q", got)
	}

	allDay := Event{Title: "Holiday", AllDay: true}
	if got := FormatAgenda([]Event{allDay}); got != "종일 Holiday" {
		t.Fatalf("all-day agenda = %q", got)
	}

	untitled := Event{
		Start: time.Date(2025, 6, 1, 14, 30, 0, 0, loc),
		End:   time.Date(2025, 6, 1, 15, 0, 0, 0, loc),
	}
	if got := FormatAgenda([]Event{untitled}); got != "14:30 - 15:00 (제목 없음)" {
		t.Fatalf("untitled agenda = %q", got)
	}

	both := FormatAgenda([]Event{timed, allDay})
	want := "09:00 - 10:00 Standup\n종일 Holiday"
	if both != want {
		t.Fatalf("multi agenda = %q, want %q", both, want)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, loc)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "", want: time.Date(2025, 6, 15, 0, 0, 0, 0, loc)},
		{raw: "오늘", want: time.Date(2025, 6, 15, 0, 0, 0, 0, loc)},
		{raw: "내일", want: time.Date(2025, 6, 16, 0, 0, 0, 0, loc)},
		{raw: "모레", want: time.Date(2025, 6, 17, 0, 0, 0, 0, loc)},
		{raw: "2025-12-25", want: time.Date(2025, 12, 25, 0, 0, 0, 0, loc)},
		{raw: "03-01", want: time.Date(2025, 3, 1, 0, 0, 0, 0, loc)},
		{raw: "yesterday", wantErr: true},
		{raw: "2025/12/25", wantErr: true},
		{raw: "13-45", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.raw, now)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error, got %v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.raw, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestEnsureValidFreshToken(t *testing.T) {
	t.Parallel()
	a, err := NewAuth(AuthConfig{ClientID: "id", ClientSecret: "secret"})
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}

	tok := storage.CalendarToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	got, refreshed, err := a.EnsureValid(t.Context(), tok)
	if err != nil {
		t.Fatalf("EnsureValid: %v", err)
	}
	if refreshed {
		t.Fatal("fresh token must not be refreshed")
	}
	if got != tok {
		t.Fatalf("fresh token mutated: %#v", got)
	}
}

func TestNewAuthRequiresClient(t *testing.T) {
	t.Parallel()
	if _, err := NewAuth(AuthConfig{}); err == nil {
		t.Fatal("expected error for missing client credentials")
	}
}
