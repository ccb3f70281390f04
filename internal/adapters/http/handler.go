package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/dumu-tech/boomerang/internal/service"
	"github.com/gofiber/fiber/v2"
)

// WebhookAck is the body returned for every processed webhook delivery
const WebhookAck = "Success"

// Handler handles HTTP requests for the Messenger webhook and hosted attachments
type Handler struct {
	bot         BotHandler
	attachments AttachmentResolver
	logger      *slog.Logger
}

// BotHandler defines the interface for webhook registration and delivery
type BotHandler interface {
	Verify(mode, token, challenge string) (string, error)
	HandleWebhook(ctx context.Context, body []byte) (*service.DeliveryReport, error)
}

// AttachmentResolver defines the interface for looking up hosted attachments
type AttachmentResolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

// NewHandler creates a new HTTP handler. attachments may be nil when
// attachment hosting is not used.
func NewHandler(bot BotHandler, attachments AttachmentResolver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		bot:         bot,
		attachments: attachments,
		logger:      logger,
	}
}

// VerifyWebhook handles GET requests for webhook registration
func (h *Handler) VerifyWebhook(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	h.logger.Info("Webhook verification request received", "mode", mode, "token_length", len(token))

	reply, err := h.bot.Verify(mode, token, challenge)
	switch {
	case errors.Is(err, service.ErrInvalidMode):
		h.logger.Warn("Webhook verification failed: invalid mode", "mode", mode)
		return c.Status(http.StatusBadRequest).SendString("Invalid mode")
	case errors.Is(err, service.ErrVerifyTokenMismatch):
		h.logger.Warn("Webhook verification failed: token mismatch")
		return c.Status(http.StatusForbidden).SendString("Verification token did not match server")
	case err != nil:
		return c.Status(http.StatusBadRequest).SendString(err.Error())
	}

	h.logger.Info("Webhook verification successful")
	// Return challenge as plain text (not JSON)
	return c.Status(http.StatusOK).SendString(reply)
}

// ReceiveMessage handles POST requests carrying webhook events. It always
// answers 200 so the platform does not redeliver.
func (h *Handler) ReceiveMessage(c *fiber.Ctx) error {
	report, err := h.bot.HandleWebhook(c.Context(), c.Body())
	if err != nil {
		deliveryID := ""
		if report != nil {
			deliveryID = report.DeliveryID
		}
		h.logger.Error("Unreadable webhook delivery", "delivery_id", deliveryID, "err", err)
	}

	return c.Status(http.StatusOK).SendString(WebhookAck)
}

// ServeAttachment serves a file registered through attachment hosting
func (h *Handler) ServeAttachment(c *fiber.Ctx) error {
	if h.attachments == nil {
		return c.SendStatus(http.StatusNotFound)
	}

	id := c.Params("id")
	path, err := h.attachments.Resolve(c.Context(), id)
	if errors.Is(err, core.ErrAttachmentNotFound) {
		return c.SendStatus(http.StatusNotFound)
	}
	if err != nil {
		h.logger.Error("Error resolving attachment", "id", id, "err", err)
		return c.SendStatus(http.StatusInternalServerError)
	}

	return c.SendFile(path)
}

// Health reports that the server is up
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"project": "boomerang",
	})
}
