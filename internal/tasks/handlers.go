package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// WelcomeSender delivers a welcome mail. Implemented by mailer.SendGrid.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email, verifyURL string) error
}

type Handler struct {
	sender WelcomeSender
	logger *slog.Logger
}

func NewHandler(sender WelcomeSender, logger *slog.Logger) *Handler {
	return &Handler{sender: sender, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcomeEmail)
}

// HandleWelcomeEmail delivers the signup welcome mail. Returning an error
// lets asynq retry with backoff, so transient SendGrid failures do not lose
// the mail.
func (h *Handler) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("sending welcome email", "email", payload.Email)

	if err := h.sender.SendWelcome(ctx, payload.Email, payload.VerifyURL); err != nil {
		h.logger.Error("welcome email delivery failed", "email", payload.Email, "error", err)
		return err
	}

	h.logger.Info("welcome email sent", "email", payload.Email)
	return nil
}
