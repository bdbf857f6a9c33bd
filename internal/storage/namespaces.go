package storage

import "time"

// Namespace names. Each maps to one JSON document under the data dir.
const (
	NSAutoClean        = "auto_clean"
	NSAnonSettings     = "anon_settings"
	NSCalendarTokens   = "calendar_tokens"
	NSCalendarSettings = "calendar_settings"
)

// AutoCleanEntry is keyed by channel ID.
type AutoCleanEntry struct {
	ChannelName   string    `json:"channelName"`
	GuildID       string    `json:"guildId"`
	IntervalHours int       `json:"intervalHours"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AnonEntry is keyed by guild ID and names the guild's anonymous channel.
type AnonEntry struct {
	ChannelID   string    `json:"channelId"`
	ChannelName string    `json:"channelName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CalendarToken is keyed by user ID. The token pair is opaque to everything
// except the calendar service, which owns refresh.
type CalendarToken struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LinkedAt     time.Time `json:"linkedAt"`
}

// CalendarSettings is keyed by user ID.
type CalendarSettings struct {
	NotificationTime string    `json:"notificationTime"` // "HH:mm"
	ChannelID        string    `json:"channelId"`        // empty = deliver via DM
	GuildID          string    `json:"guildId"`
	Enabled          bool      `json:"enabled"`
	CreatedAt        time.Time `json:"createdAt"`
}
