package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeWelcomeEmail = "email:welcome"
)

// WelcomeEmailPayload contains the data for a welcome email delivery task.
type WelcomeEmailPayload struct {
	Email     string `json:"email"`
	VerifyURL string `json:"verify_url"`
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWelcomeEmail, data, asynq.Queue("mail"), asynq.MaxRetry(5)), nil
}
