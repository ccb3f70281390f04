package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/dumu-tech/boomerang/internal/events"
)

var (
	// ErrInvalidMode is returned for a registration request whose hub.mode is not subscribe
	ErrInvalidMode = errors.New("invalid hub.mode")
	// ErrVerifyTokenMismatch is returned when hub.verify_token does not match the configured token
	ErrVerifyTokenMismatch = errors.New("verification token did not match server")
)

// SubscribeMode is the hub.mode the platform sends when registering a webhook
const SubscribeMode = "subscribe"

// Bot owns the handler registry of one page and exposes the operations
// handlers use to talk back to users
type Bot struct {
	verifyToken string
	registry    *events.Registry
	gateway     core.MessengerGateway
	dispatcher  *Dispatcher
	host        *AttachmentHost
	logger      *slog.Logger
}

// BotOption configures a Bot
type BotOption func(*Bot)

// WithAttachmentHost enables HostAttachment
func WithAttachmentHost(host *AttachmentHost) BotOption {
	return func(b *Bot) {
		b.host = host
	}
}

// WithBotLogger sets the logger of the bot and its dispatcher
func WithBotLogger(logger *slog.Logger) BotOption {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBot creates a bot answering webhook registration with verifyToken and
// talking to the platform through gateway
func NewBot(verifyToken string, gateway core.MessengerGateway, opts ...BotOption) *Bot {
	b := &Bot{
		verifyToken: verifyToken,
		registry:    events.NewRegistry(),
		gateway:     gateway,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.host == nil {
		b.host = NewAttachmentHost("", nil, b.logger)
	}
	b.dispatcher = NewDispatcher(b.registry, gateway, b.logger)

	if b.verifyToken == "" {
		b.logger.Warn("Verify token is empty, webhook registration will always fail")
	}
	return b
}

// Register adds a handler for eventType. Handlers run in registration order.
func (b *Bot) Register(eventType core.EventType, h events.Handler) {
	b.registry.Register(eventType, h)
}

// Handle returns a function registering handlers for eventType
func (b *Bot) Handle(eventType core.EventType) func(events.Handler) {
	return b.registry.Handle(eventType)
}

// Registry exposes the handler registry
func (b *Bot) Registry() *events.Registry {
	return b.registry
}

// Verify answers a webhook registration request, returning the challenge
// to echo back when the request is valid
func (b *Bot) Verify(mode, token, challenge string) (string, error) {
	if mode != SubscribeMode {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	if b.verifyToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(b.verifyToken)) != 1 {
		return "", ErrVerifyTokenMismatch
	}
	return challenge, nil
}

// HandleWebhook dispatches every event of a webhook POST body
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) (*DeliveryReport, error) {
	return b.dispatcher.HandleWebhook(ctx, body)
}

// Dispatch runs the handlers of a single, already decoded event
func (b *Bot) Dispatch(ctx context.Context, event core.Event) int {
	return b.dispatcher.Dispatch(ctx, event)
}

// Send sends msg to userID and returns the platform message id
func (b *Bot) Send(ctx context.Context, userID int64, msg *core.Message) (string, error) {
	return b.gateway.Send(ctx, userID, msg)
}

// SendReply normalizes reply and sends each resulting message in order,
// stopping at the first failure. It returns the ids of the messages sent.
func (b *Bot) SendReply(ctx context.Context, userID int64, reply core.Reply) ([]string, error) {
	messages, err := core.NormalizeReply(reply)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		id, err := b.gateway.Send(ctx, userID, msg)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RespondTo sends reply to the user who triggered event
func (b *Bot) RespondTo(ctx context.Context, event core.Event, reply core.Reply) ([]string, error) {
	return b.SendReply(ctx, event.Sender(), reply)
}

// SendAction sends a typing indicator or read receipt to userID
func (b *Bot) SendAction(ctx context.Context, userID int64, action core.SenderAction) error {
	return b.gateway.SendAction(ctx, userID, action)
}

// Acknowledge marks the event as seen and shows the typing indicator
func (b *Bot) Acknowledge(ctx context.Context, event core.Event) error {
	if err := b.gateway.SendAction(ctx, event.Sender(), core.ActionMarkSeen); err != nil {
		return err
	}
	return b.gateway.SendAction(ctx, event.Sender(), core.ActionTypingOn)
}

// SetThreadSettings configures the page's conversation thread
func (b *Bot) SetThreadSettings(ctx context.Context, settings core.ThreadSettings) error {
	return b.gateway.SetThreadSettings(ctx, settings)
}

// UserProfile looks up the profile of userID
func (b *Bot) UserProfile(ctx context.Context, userID int64) (core.UserProfile, error) {
	return b.gateway.UserProfile(ctx, userID)
}

// HostAttachment publishes a local file and returns an attachment pointing at it
func (b *Bot) HostAttachment(ctx context.Context, mediaType core.MediaType, path string) (*core.MediaAttachment, error) {
	return b.host.Host(ctx, mediaType, path)
}

// AttachmentHost returns the host serving hosted attachments
func (b *Bot) AttachmentHost() *AttachmentHost {
	return b.host
}
