package config

// Config is the process configuration. Persisted schedule entries live in
// the settings namespaces (internal/storage), never here: config covers
// credentials, sinks, and tunables only.
type Config struct {
	Discord   DiscordConfig   `json:"discord"`
	Google    GoogleConfig    `json:"google"`
	Logging   LoggingConfig   `json:"logging"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Storage   StorageConfig   `json:"storage"`
	Cooldown  CooldownConfig  `json:"cooldown,omitempty"`
}

type DiscordConfig struct {
	Token string `json:"token"`

	// LogChannelID receives forwarded warn/error log lines when
	// logging.discord.enabled is set.
	LogChannelID string `json:"log_channel_id,omitempty"`

	// RatePerSec caps outbound REST calls. Discord bulk endpoints are
	// heavily rate limited server-side; staying under our own cap avoids
	// 429 storms during cleanup runs. Default 5.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type GoogleConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	// RedirectURL defaults to the out-of-band flow (manual code entry).
	RedirectURL string `json:"redirect_url,omitempty"`
}

type LoggingConfig struct {
	Level   string           `json:"level"`
	Console bool             `json:"console"`
	File    FileConfig       `json:"file"`
	Discord DiscordLogConfig `json:"discord,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type DiscordLogConfig struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

type SchedulerConfig struct {
	// Timezone is the IANA zone used for daily notification triggers,
	// e.g. "Asia/Seoul". Defaults to Asia/Seoul.
	Timezone string `json:"timezone,omitempty"`
}

type StorageConfig struct {
	// Dir holds one JSON document per settings namespace.
	Dir string `json:"dir"`
}

type CooldownConfig struct {
	// Anon throttles anonymous posting per user, as a Go duration string
	// (e.g. "90s", "2m"). Default 1m.
	Anon string `json:"anon,omitempty"`
}
