// Package mailer enqueues and delivers transactional mail. The API server
// only ever enqueues; actual SendGrid calls happen in the worker so a slow
// mail provider never holds up a signup response.
package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hibiken/asynq"
	"github.com/mkovac/go-shelter/internal/tasks"
)

// Enqueuer satisfies the auth service's Mailer interface by handing the
// welcome mail to the background queue.
type Enqueuer struct {
	client  *asynq.Client
	baseURL string
}

func NewEnqueuer(client *asynq.Client, baseURL string) *Enqueuer {
	return &Enqueuer{client: client, baseURL: baseURL}
}

func (e *Enqueuer) SendWelcome(ctx context.Context, email string) error {
	task, err := tasks.NewWelcomeEmailTask(tasks.WelcomeEmailPayload{
		Email:     email,
		VerifyURL: fmt.Sprintf("%s/api/v1/users/verify/%s", e.baseURL, url.PathEscape(email)),
	})
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task)
	return err
}

// Discard drops mail. Stands in for the queue when Redis is unavailable so
// signup keeps working in degraded deployments.
type Discard struct{}

func (Discard) SendWelcome(ctx context.Context, email string) error {
	return nil
}
