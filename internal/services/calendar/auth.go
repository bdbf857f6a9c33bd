// Package calendar owns the Google Calendar collaborator: the OAuth
// credential lifecycle, event listing, and agenda formatting.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	"bamboobot/internal/storage"
)

// ErrCredentialExpired means the refresh token itself was rejected. The
// user must relink; callers never retry this automatically.
var ErrCredentialExpired = errors.New("calendar credential expired; relink required")

// DefaultStaleMargin is the safety window before expiry within which a
// token is refreshed rather than used.
const DefaultStaleMargin = 5 * time.Minute

// oobRedirectURL is the manual code-entry flow: the user pastes the code
// back to the bot instead of being redirected to a server we'd have to run.
const oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Auth wraps the OAuth authorization-code flow and token refresh.
type Auth struct {
	cfg *oauth2.Config
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google client_id and client_secret are required")
	}
	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = oobRedirectURL
	}
	return &Auth{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{gcal.CalendarReadonlyScope},
			Endpoint:     googleoauth.Endpoint,
		},
	}, nil
}

// AuthURL builds the consent URL. Offline access plus forced consent
// guarantees a refresh token on every link.
func (a *Auth) AuthURL() string {
	return a.cfg.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a stored credential.
func (a *Auth) Exchange(ctx context.Context, code string) (storage.CalendarToken, error) {
	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return storage.CalendarToken{}, fmt.Errorf("code exchange: %w", err)
	}
	now := time.Now()
	return storage.CalendarToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
		LinkedAt:     now,
	}, nil
}

// Stale reports whether tok must be refreshed before use. The boundary is
// strict: a token expiring in exactly margin is still usable.
func Stale(tok storage.CalendarToken, margin time.Duration) bool {
	return staleAt(tok, margin, time.Now())
}

func staleAt(tok storage.CalendarToken, margin time.Duration, now time.Time) bool {
	if tok.ExpiresAt.IsZero() {
		return false
	}
	return tok.ExpiresAt.Sub(now) < margin
}

// EnsureValid returns a credential safe for an external call, refreshing
// it when stale. The second result reports whether a refresh happened, so
// the caller can persist the new credential before using it (write-through).
// A failed refresh surfaces ErrCredentialExpired and must not be retried.
func (a *Auth) EnsureValid(ctx context.Context, tok storage.CalendarToken) (storage.CalendarToken, bool, error) {
	if !Stale(tok, DefaultStaleMargin) {
		return tok, false, nil
	}

	src := a.cfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: tok.RefreshToken,
	})
	fresh, err := src.Token()
	if err != nil {
		return storage.CalendarToken{}, false, fmt.Errorf("%w: %v", ErrCredentialExpired, err)
	}

	out := tok
	out.AccessToken = fresh.AccessToken
	out.ExpiresAt = fresh.Expiry
	// Google often omits the refresh token on refresh responses; keep the
	// stored one in that case.
	if fresh.RefreshToken != "" {
		out.RefreshToken = fresh.RefreshToken
	}
	return out, true, nil
}
