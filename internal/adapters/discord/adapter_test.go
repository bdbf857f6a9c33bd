package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"bamboobot/internal/kit"
)

func restErr(code int, status int) error {
	e := &discordgo.RESTError{}
	if code != 0 {
		e.Message = &discordgo.APIErrorMessage{Code: code}
	}
	if status != 0 {
		e.Response = &http.Response{StatusCode: status}
	}
	return e
}

func TestMapErr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"unknown channel code", restErr(discordgo.ErrCodeUnknownChannel, 0), kit.ErrChannelNotFound},
		{"missing access code", restErr(discordgo.ErrCodeMissingAccess, 0), kit.ErrNoAccess},
		{"missing permissions code", restErr(discordgo.ErrCodeMissingPermissions, 0), kit.ErrNoAccess},
		{"http 404 without code", restErr(0, http.StatusNotFound), kit.ErrChannelNotFound},
		{"http 403 without code", restErr(0, http.StatusForbidden), kit.ErrNoAccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := mapErr(tc.in, "probe")
			if !errors.Is(got, tc.want) {
				t.Fatalf("mapErr = %v, want %v", got, tc.want)
			}
		})
	}

	plain := fmt.Errorf("socket closed")
	got := mapErr(plain, "probe")
	if errors.Is(got, kit.ErrChannelNotFound) || errors.Is(got, kit.ErrNoAccess) {
		t.Fatalf("plain error must not map to a sentinel: %v", got)
	}
	if !errors.Is(got, plain) {
		t.Fatalf("plain error must stay wrapped: %v", got)
	}
}

func TestCommandDefsAreWellFormed(t *testing.T) {
	t.Parallel()

	defs := commandDefs()
	seen := map[string]bool{}
	for _, d := range defs {
		if d.Name == "" || d.Description == "" {
			t.Errorf("command %+v missing name or description", d)
		}
		if seen[d.Name] {
			t.Errorf("duplicate command name %q", d.Name)
		}
		seen[d.Name] = true

		// Discord rejects required options declared after optional ones.
		checkOptionOrder(t, d.Name, d.Options)
	}
	for _, name := range []string{"위키", "나무위키", "도움말", "청소", "자동청소", "디씨주소", "유동", "고백", "캘린더"} {
		if !seen[name] {
			t.Errorf("command %q not declared", name)
		}
	}
}

func checkOptionOrder(t *testing.T, cmd string, opts []*discordgo.ApplicationCommandOption) {
	t.Helper()
	sawOptional := false
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			checkOptionOrder(t, cmd+"/"+o.Name, o.Options)
			continue
		}
		if !o.Required && !sawOptional {
			sawOptional = true
		}
		if o.Required && sawOptional {
			t.Errorf("%s: required option %q after optional one", cmd, o.Name)
		}
	}
}

func TestInteractionUserID(t *testing.T) {
	t.Parallel()

	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "m1"}},
	}}
	if got := interactionUserID(guild); got != "m1" {
		t.Fatalf("guild interaction user = %q", got)
	}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "d1"},
	}}
	if got := interactionUserID(dm); got != "d1" {
		t.Fatalf("dm interaction user = %q", got)
	}
	if got := interactionUserID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}); got != "" {
		t.Fatalf("empty interaction user = %q", got)
	}
}
