package http

import (
	"github.com/dumu-tech/boomerang/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// DefaultWebhookPath is where the platform delivers webhook requests
const DefaultWebhookPath = "/webhook"

// NewApp builds the fiber application exposing the webhook, hosted
// attachments and a health check
func NewApp(h *Handler, webhookPath string) *fiber.App {
	if webhookPath == "" {
		webhookPath = DefaultWebhookPath
	}

	app := fiber.New(fiber.Config{
		AppName:               "Boomerang Messenger Bot",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", h.Health)

	// GET for webhook registration, POST for event delivery
	app.Get(webhookPath, h.VerifyWebhook)
	app.Post(webhookPath, h.ReceiveMessage)

	app.Get(service.AttachmentRoute+"/:id", h.ServeAttachment)

	return app
}
