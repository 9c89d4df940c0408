package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkovac/go-shelter/internal/tasks"
)

var _ tasks.WelcomeSender = (*SendGrid)(nil)

const defaultSendGridURL = "https://api.sendgrid.com/v3"

// SendGrid delivers mail through the SendGrid v3 REST API.
type SendGrid struct {
	apiKey    string
	fromEmail string
	fromName  string
	baseURL   string
	client    *http.Client
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   defaultSendGridURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewSendGridWithBase points the sender at a custom API endpoint. Used by
// tests.
func NewSendGridWithBase(apiKey, fromEmail, fromName, baseURL string, client *http.Client) *SendGrid {
	return &SendGrid{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
		client:    client,
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridMail struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress `json:"from"`
	Subject string          `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func (s *SendGrid) SendWelcome(ctx context.Context, email, verifyURL string) error {
	body := fmt.Sprintf(
		"Pozdravljeni!\n\nDobrodošli v Go-Shelter. Potrdite svoj e-naslov s klikom na povezavo:\n\n%s\n",
		verifyURL,
	)
	return s.send(ctx, email, "Dobrodošli v Go-Shelter", body)
}

func (s *SendGrid) send(ctx context.Context, to, subject, body string) error {
	mail := sendGridMail{
		From:    sendGridAddress{Email: s.fromEmail, Name: s.fromName},
		Subject: subject,
	}
	mail.Personalizations = append(mail.Personalizations, struct {
		To []sendGridAddress `json:"to"`
	}{To: []sendGridAddress{{Email: to}}})
	mail.Content = append(mail.Content, struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: "text/plain", Value: body})

	payload, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mail/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
