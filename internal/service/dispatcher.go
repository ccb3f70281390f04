package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/dumu-tech/boomerang/internal/events"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ReplySender sends one message to a user
type ReplySender interface {
	Send(ctx context.Context, userID int64, msg *core.Message) (string, error)
}

// DeliveryReport summarises the processing of one webhook delivery
type DeliveryReport struct {
	DeliveryID string
	Envelopes  int
	Dispatched int
	Echoes     int
	Skipped    int
	Failed     int
	Replies    int
}

// Dispatcher turns webhook deliveries into handler invocations. Envelopes
// are processed one after another and handlers run in registration order,
// so replies to a user go out in the order they were produced.
type Dispatcher struct {
	registry *events.Registry
	sender   ReplySender
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher routing events through registry and
// sending replies with sender
func NewDispatcher(registry *events.Registry, sender ReplySender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		sender:   sender,
		logger:   logger,
	}
}

// HandleWebhook processes every envelope of a webhook POST body. A failing
// envelope is logged and skipped; only a body that is not a JSON object is
// returned as an error.
func (d *Dispatcher) HandleWebhook(ctx context.Context, body []byte) (*DeliveryReport, error) {
	report := &DeliveryReport{DeliveryID: uuid.NewString()}
	logger := d.logger.With("delivery_id", report.DeliveryID)

	if !gjson.ValidBytes(body) {
		return report, &core.DecodeError{Field: "body", Err: core.ErrMalformedPayload}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return report, &core.DecodeError{Field: "body", Err: core.ErrMalformedPayload}
	}

	// The API provides a list of entries, each holding a list of envelopes
	for _, entry := range root.Get("entry").Array() {
		for _, envelope := range entry.Get("messaging").Array() {
			if err := ctx.Err(); err != nil {
				logger.Warn("Webhook delivery abandoned", "err", err)
				return report, nil
			}
			report.Envelopes++

			outcome, err := d.handleEnvelope(ctx, logger, envelope, report)
			switch outcome {
			case outcomeDispatched:
				report.Dispatched++
			case outcomeEcho:
				report.Echoes++
			case outcomeSkipped:
				report.Skipped++
			case outcomeFailed:
				report.Failed++
				logger.Warn("Dropping malformed envelope", "err", err, "envelope", envelope.Raw)
			}
		}
	}

	logger.Info("Webhook delivery processed",
		"envelopes", report.Envelopes,
		"dispatched", report.Dispatched,
		"echoes", report.Echoes,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"replies", report.Replies)

	return report, nil
}

type envelopeOutcome int

const (
	outcomeDispatched envelopeOutcome = iota
	outcomeEcho
	outcomeSkipped
	outcomeFailed
)

func (d *Dispatcher) handleEnvelope(ctx context.Context, logger *slog.Logger, envelope gjson.Result, report *DeliveryReport) (envelopeOutcome, error) {
	userID, timestamp, err := envelopeOrigin(envelope)
	if err != nil {
		return outcomeFailed, err
	}

	key, payload, ok := probeEnvelope(envelope)
	if !ok {
		logger.Info("Skipping envelope with no known event", "user_id", userID, "envelope", envelope.Raw)
		return outcomeSkipped, nil
	}

	// Echoes of the page's own messages lack fields of a received message,
	// so they are filtered before decoding.
	if payload.Get("is_echo").Bool() {
		logger.Debug("Suppressing echo", "user_id", userID)
		return outcomeEcho, nil
	}

	event, err := core.DecodeEventResult(key.Type, userID, timestamp, payload)
	if err != nil {
		return outcomeFailed, fmt.Errorf("%s: %w", key.Key, err)
	}

	report.Replies += d.Dispatch(ctx, event)
	return outcomeDispatched, nil
}

// envelopeOrigin extracts the sender id and timestamp every envelope carries
func envelopeOrigin(envelope gjson.Result) (int64, int64, error) {
	sender := envelope.Get("sender.id")
	if !sender.Exists() || sender.Type == gjson.Null {
		return 0, 0, &core.DecodeError{Field: "sender.id", Err: core.ErrMissingField}
	}
	userID, err := strconv.ParseInt(sender.String(), 10, 64)
	if err != nil {
		return 0, 0, &core.DecodeError{Field: "sender.id", Err: fmt.Errorf("%w: %v", core.ErrMalformedPayload, err)}
	}

	timestamp := envelope.Get("timestamp")
	if !timestamp.Exists() || timestamp.Type == gjson.Null {
		return 0, 0, &core.DecodeError{Field: "timestamp", Err: core.ErrMissingField}
	}
	if timestamp.Type != gjson.Number {
		return 0, 0, &core.DecodeError{Field: "timestamp", Err: fmt.Errorf("%w: not a number: %s", core.ErrMalformedPayload, timestamp.Raw)}
	}
	return userID, timestamp.Int(), nil
}

// probeEnvelope finds the first recognised event key present in envelope
func probeEnvelope(envelope gjson.Result) (core.EnvelopeKey, gjson.Result, bool) {
	for _, key := range core.EnvelopeKeys {
		if payload := envelope.Get(key.Key); payload.Exists() {
			return key, payload, true
		}
	}
	return core.EnvelopeKey{}, gjson.Result{}, false
}

// Dispatch runs every handler registered for the event's type and sends
// their replies to the user who triggered it. It returns the number of
// replies sent.
func (d *Dispatcher) Dispatch(ctx context.Context, event core.Event) int {
	handlers := d.registry.Handlers(event.Type())
	if len(handlers) == 0 {
		d.logger.Info("No handlers registered", "event_type", event.Type(), "user_id", event.Sender())
		return 0
	}

	sent := 0
	for i, h := range handlers {
		reply, err := d.invoke(ctx, h, event)
		if err != nil {
			d.logger.Error("Handler failed",
				"event_type", event.Type(),
				"handler", i,
				"user_id", event.Sender(),
				"err", err)
			continue
		}
		sent += d.sendReply(ctx, event.Sender(), reply)
	}
	return sent
}

func (d *Dispatcher) invoke(ctx context.Context, h events.Handler, event core.Event) (reply core.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, event)
}

// sendReply sends each value of reply on its own: an invalid element of a
// Replies sequence is logged and skipped while its siblings still go out.
func (d *Dispatcher) sendReply(ctx context.Context, userID int64, reply core.Reply) int {
	if replies, ok := reply.(core.Replies); ok {
		sent := 0
		for _, r := range replies {
			if ctx.Err() != nil {
				break
			}
			sent += d.sendReply(ctx, userID, r)
		}
		return sent
	}

	messages, err := core.NormalizeReply(reply)
	if err != nil {
		d.logger.Error("Invalid handler reply", "user_id", userID, "err", err)
		return 0
	}

	sent := 0
	for _, msg := range messages {
		if ctx.Err() != nil {
			d.logger.Warn("Reply abandoned", "user_id", userID, "err", ctx.Err())
			break
		}
		messageID, err := d.send(ctx, userID, msg)
		if err != nil {
			d.logger.Error("Error sending reply", "user_id", userID, "err", err)
			continue
		}
		d.logger.Debug("Reply sent", "user_id", userID, "message_id", messageID)
		sent++
	}
	return sent
}

func (d *Dispatcher) send(ctx context.Context, userID int64, msg *core.Message) (messageID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send panic: %v", r)
		}
	}()
	return d.sender.Send(ctx, userID, msg)
}
