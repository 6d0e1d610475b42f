package server

import (
	"errors"

	"rewear/internal/cache"
	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/webhook"

	"github.com/gofiber/fiber/v2"
)

// HandleAuthWebhook handles POST /api/webhooks/auth
//
// The auth provider signs each delivery; unverifiable requests are rejected
// before the payload is even parsed. Deliveries are retried by the provider,
// so the message ID doubles as an idempotency key.
func (s *Server) HandleAuthWebhook(c *fiber.Ctx) error {
	if s.webhookVerifier == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Webhooks are not configured"))
	}

	msgID := c.Get(webhook.HeaderID)
	timestamp := c.Get(webhook.HeaderTimestamp)
	signatures := c.Get(webhook.HeaderSignature)
	payload := c.Body()

	if err := s.webhookVerifier.Verify(payload, msgID, timestamp, signatures); err != nil {
		middleware.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		middleware.Logger.WarnContext(c.UserContext(), "webhook signature rejected",
			"msg_id", msgID, "error", err)
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid webhook signature"))
	}

	// First delivery wins; replays of an already-processed message ID ack
	// without reapplying.
	fresh, err := cache.ClaimOnce(c.UserContext(), cache.WebhookKey(msgID), cache.WebhookTTL)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "webhook dedupe check failed",
			"msg_id", msgID, "error", err)
	}
	if err == nil && !fresh {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "duplicate"})
	}

	event, err := webhook.ParseEvent(payload)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Malformed webhook payload"))
	}

	if err := s.userService.ApplyWebhookEvent(c.UserContext(), event); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		// Non-2xx makes the provider redeliver, which is what we want for
		// transient database failures.
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "processed"})
}
