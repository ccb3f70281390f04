package main

import (
	"context"
	"log/slog"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/dumu-tech/boomerang/internal/service"
)

// registerHandlers wires the example echo bot
func registerHandlers(bot *service.Bot) {
	bot.Handle(core.EventMessageReceived)(func(ctx context.Context, event core.Event) (core.Reply, error) {
		msg, ok := event.(*core.MessageReceived)
		if !ok {
			return nil, nil
		}
		slog.Info("Received message", "user_id", msg.UserID, "text", msg.Text)

		if err := bot.Acknowledge(ctx, msg); err != nil {
			slog.Warn("Failed to acknowledge message", "user_id", msg.UserID, "err", err)
		}

		if msg.QuickReply != nil {
			return core.Text("You picked " + msg.QuickReply.Payload), nil
		}
		if msg.Text == "" {
			return core.Text("Thanks for the attachment!"), nil
		}
		return core.Text(msg.Text), nil
	})

	bot.Handle(core.EventPostback)(func(ctx context.Context, event core.Event) (core.Reply, error) {
		postback, ok := event.(*core.Postback)
		if !ok {
			return nil, nil
		}
		return core.Text("Postback received: " + postback.Payload), nil
	})

	bot.Handle(core.EventAccountLink)(func(ctx context.Context, event core.Event) (core.Reply, error) {
		link, ok := event.(*core.AccountLink)
		if !ok {
			return nil, nil
		}
		if link.Status == core.AccountUnlinked {
			return core.Text("Your account has been unlinked."), nil
		}
		return core.Text("Your account is now linked."), nil
	})
}
