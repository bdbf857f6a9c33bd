// Package discord adapts the discordgo session to the kit.Messenger
// contract and hosts the slash-command layer.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"bamboobot/internal/kit"
	"bamboobot/pkg/logx"
)

type Config struct {
	Token string
	// RatePerSec caps outbound REST calls; discordgo retries on 429 but a
	// local limiter keeps bulk cleanup from starving interactive commands.
	RatePerSec float64
}

type Adapter struct {
	cfg     Config
	log     logx.Logger
	sess    *discordgo.Session
	limiter *rate.Limiter

	appID string
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("discord token is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	sess, err := discordgo.New("Bot " + strings.TrimSpace(cfg.Token))
	if err != nil {
		return nil, err
	}
	sess.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 10
	}
	return &Adapter{
		cfg:     cfg,
		log:     log,
		sess:    sess,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
	}, nil
}

// Session exposes the underlying session for handler registration.
func (a *Adapter) Session() *discordgo.Session { return a.sess }

// AppID returns the bot's application ID; valid after Start.
func (a *Adapter) AppID() string { return a.appID }

func (a *Adapter) Start(ctx context.Context) error {
	if err := a.sess.Open(); err != nil {
		return fmt.Errorf("gateway open: %w", err)
	}
	if a.sess.State != nil && a.sess.State.User != nil {
		a.appID = a.sess.State.User.ID
		a.log.Info("gateway connected",
			logx.String("user", a.sess.State.User.Username),
			logx.String("app_id", a.appID))
	}
	return nil
}

func (a *Adapter) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- a.sess.Close() }()
	select {
	case err := <-done:
		a.log.Info("gateway closed")
		return err
	case <-ctx.Done():
		a.log.Warn("gateway close cancelled", logx.Err(ctx.Err()))
		return ctx.Err()
	}
}

func (a *Adapter) wait(ctx context.Context) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func (a *Adapter) FetchChannel(ctx context.Context, id string) (kit.Channel, error) {
	if err := a.wait(ctx); err != nil {
		return kit.Channel{}, err
	}
	ch, err := a.sess.Channel(id, discordgo.WithContext(ctx))
	if err != nil {
		return kit.Channel{}, mapErr(err, "channel "+id)
	}
	return kit.Channel{ID: ch.ID, Name: ch.Name, GuildID: ch.GuildID}, nil
}

func (a *Adapter) FetchRecentMessages(ctx context.Context, channelID string, limit int) ([]kit.Message, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	msgs, err := a.sess.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapErr(err, "messages of "+channelID)
	}
	out := make([]kit.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, kit.Message{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			AuthorID:  authorID(m),
			Timestamp: m.Timestamp,
		})
	}
	return out, nil
}

func (a *Adapter) BulkDelete(ctx context.Context, channelID string, messageIDs []string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	if err := a.wait(ctx); err != nil {
		return 0, err
	}
	// The bulk endpoint rejects a single-message batch.
	if len(messageIDs) == 1 {
		if err := a.sess.ChannelMessageDelete(channelID, messageIDs[0], discordgo.WithContext(ctx)); err != nil {
			return 0, mapErr(err, "delete in "+channelID)
		}
		return 1, nil
	}
	if err := a.sess.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx)); err != nil {
		return 0, mapErr(err, "bulk delete in "+channelID)
	}
	return len(messageIDs), nil
}

func (a *Adapter) SendMessage(ctx context.Context, to kit.Target, content string) error {
	if err := a.wait(ctx); err != nil {
		return err
	}
	channelID := to.ChannelID
	if channelID == "" {
		dm, err := a.sess.UserChannelCreate(to.UserID, discordgo.WithContext(ctx))
		if err != nil {
			return mapErr(err, "dm channel for "+to.UserID)
		}
		channelID = dm.ID
	}
	if _, err := a.sess.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return mapErr(err, "send to "+channelID)
	}
	return nil
}

func (a *Adapter) FetchUser(ctx context.Context, id string) (kit.User, error) {
	if err := a.wait(ctx); err != nil {
		return kit.User{}, err
	}
	u, err := a.sess.User(id, discordgo.WithContext(ctx))
	if err != nil {
		return kit.User{}, mapErr(err, "user "+id)
	}
	return kit.User{ID: u.ID, Username: u.Username}, nil
}

// SendEmbed delivers a rich embed to a channel. Embeds are a command-layer
// nicety, so this sits outside the kit.Messenger contract.
func (a *Adapter) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if err := a.wait(ctx); err != nil {
		return err
	}
	if _, err := a.sess.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return mapErr(err, "embed to "+channelID)
	}
	return nil
}

func authorID(m *discordgo.Message) string {
	if m.Author == nil {
		return ""
	}
	return m.Author.ID
}

// mapErr translates REST failures into the kit sentinels the dispatchers
// self-heal on.
func mapErr(err error, what string) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		if rest.Message != nil {
			switch rest.Message.Code {
			case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownUser:
				return fmt.Errorf("%s: %w", what, kit.ErrChannelNotFound)
			case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
				return fmt.Errorf("%s: %w", what, kit.ErrNoAccess)
			}
		}
		if rest.Response != nil {
			switch rest.Response.StatusCode {
			case http.StatusNotFound:
				return fmt.Errorf("%s: %w", what, kit.ErrChannelNotFound)
			case http.StatusForbidden:
				return fmt.Errorf("%s: %w", what, kit.ErrNoAccess)
			}
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

var _ kit.Messenger = (*Adapter)(nil)
