// Package email sends transactional mail through Resend.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const resendAPI = "https://api.resend.com/emails"

type Attachment struct {
	Filename string `json:"filename"`
	// Content is base64 encoded.
	Content string `json:"content"`
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type resendPayload struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Resend struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewResend(apiKey, from string) *Resend {
	return &Resend{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendAPI,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendPayload{
		From:        r.from,
		To:          msg.To,
		Subject:     msg.Subject,
		HTML:        msg.HTML,
		Text:        msg.Text,
		Attachments: msg.Attachments,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend: unexpected status %s", resp.Status)
	}
	return nil
}

// LogMailer only logs messages. It is used when no API key is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) Send(_ context.Context, msg Message) error {
	l.log.Info("email not sent, no provider configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

// New picks Resend when apiKey is set.
func New(apiKey, from string, log *zap.Logger) Mailer {
	if apiKey == "" {
		return NewLogMailer(log)
	}
	return NewResend(apiKey, from)
}
