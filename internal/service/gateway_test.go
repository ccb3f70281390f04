package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dumu-tech/boomerang/internal/core"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type sentMessage struct {
	UserID  int64
	Message *core.Message
}

// fakeGateway records every call made to the Send/Graph API
type fakeGateway struct {
	mu       sync.Mutex
	sent     []sentMessage
	actions  []core.SenderAction
	settings []core.ThreadSettings
	profile  core.UserProfile
	// failSend makes the send with this index (counted from zero) fail
	failSend int
	sendErr  error
	actErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failSend: -1}
}

func (g *fakeGateway) Send(_ context.Context, userID int64, msg *core.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	attempt := len(g.sent)
	g.sent = append(g.sent, sentMessage{UserID: userID, Message: msg})
	if attempt == g.failSend {
		return "", g.sendErr
	}
	return fmt.Sprintf("mid.%d", attempt), nil
}

func (g *fakeGateway) SendAction(_ context.Context, _ int64, action core.SenderAction) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.actErr != nil {
		return g.actErr
	}
	g.actions = append(g.actions, action)
	return nil
}

func (g *fakeGateway) SetThreadSettings(_ context.Context, settings core.ThreadSettings) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.settings = append(g.settings, settings)
	return nil
}

func (g *fakeGateway) UserProfile(_ context.Context, _ int64) (core.UserProfile, error) {
	if len(g.profile) == 0 {
		return nil, core.ErrProfilePermission
	}
	return g.profile, nil
}

func (g *fakeGateway) texts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(g.sent))
	for _, s := range g.sent {
		out = append(out, s.Message.Text)
	}
	return out
}
