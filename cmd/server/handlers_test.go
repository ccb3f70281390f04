package main

import (
	"context"
	"testing"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/dumu-tech/boomerang/internal/service"
)

type echoGateway struct {
	sent    []string
	actions []core.SenderAction
}

func (g *echoGateway) Send(_ context.Context, _ int64, msg *core.Message) (string, error) {
	g.sent = append(g.sent, msg.Text)
	return "mid", nil
}

func (g *echoGateway) SendAction(_ context.Context, _ int64, action core.SenderAction) error {
	g.actions = append(g.actions, action)
	return nil
}

func (g *echoGateway) SetThreadSettings(context.Context, core.ThreadSettings) error { return nil }

func (g *echoGateway) UserProfile(context.Context, int64) (core.UserProfile, error) {
	return nil, core.ErrProfilePermission
}

func TestEchoHandlers(t *testing.T) {
	gateway := &echoGateway{}
	bot := service.NewBot("secret", gateway)
	registerHandlers(bot)

	base := core.EventBase{UserID: 42, Timestamp: 1}
	events := []core.Event{
		&core.MessageReceived{EventBase: base, Text: "hello"},
		&core.MessageReceived{EventBase: base, QuickReply: &core.QuickReplyPayload{Payload: "RED"}},
		&core.MessageReceived{EventBase: base, Attachments: []core.ReceivedAttachment{&core.LocationAttachment{}}},
		&core.Postback{EventBase: base, Payload: "GET_STARTED"},
		&core.AccountLink{EventBase: base, Status: core.AccountLinked, AuthorizationCode: "code"},
		&core.AccountLink{EventBase: base, Status: core.AccountUnlinked},
	}
	for _, event := range events {
		bot.Dispatch(context.Background(), event)
	}

	want := []string{
		"hello",
		"You picked RED",
		"Thanks for the attachment!",
		"Postback received: GET_STARTED",
		"Your account is now linked.",
		"Your account has been unlinked.",
	}
	if len(gateway.sent) != len(want) {
		t.Fatalf("sent %v, want %v", gateway.sent, want)
	}
	for i := range want {
		if gateway.sent[i] != want[i] {
			t.Errorf("reply %d = %q, want %q", i, gateway.sent[i], want[i])
		}
	}
	if len(gateway.actions) != 6 {
		t.Errorf("expected mark_seen and typing_on for each message, got %v", gateway.actions)
	}
}
