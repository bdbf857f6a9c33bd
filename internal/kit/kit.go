// Package kit defines the contracts between the bot core and its external
// collaborators. Dispatchers and services depend on these interfaces, never
// on the platform SDK directly, so they can be exercised with fakes.
package kit

import (
	"context"
	"errors"
	"time"
)

// Sentinel conditions surfaced by Messenger implementations.
//
// ErrChannelNotFound and ErrNoAccess mark a target as permanently gone:
// schedule owners react by de-registering the job and purging its settings.
var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNoAccess        = errors.New("missing access to channel")
)

type Channel struct {
	ID      string
	Name    string
	GuildID string
}

type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Timestamp time.Time
}

type User struct {
	ID       string
	Username string
}

// Target addresses a delivery. Exactly one of ChannelID/UserID is set;
// a UserID target is delivered as a direct message.
type Target struct {
	ChannelID string
	UserID    string
}

func ToChannel(id string) Target { return Target{ChannelID: id} }
func ToUser(id string) Target    { return Target{UserID: id} }

// Messenger is the messaging-platform collaborator.
type Messenger interface {
	FetchChannel(ctx context.Context, id string) (Channel, error)
	FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]Message, error)
	// BulkDelete removes the given messages and reports how many were deleted.
	BulkDelete(ctx context.Context, channelID string, messageIDs []string) (int, error)
	SendMessage(ctx context.Context, to Target, content string) error
	FetchUser(ctx context.Context, id string) (User, error)
}
