package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Notifier delivers transactional e-mail through an external HTTP API.
// Failures are reported to the caller, which logs them; they never reach
// the end user.
type Notifier struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewNotifierFromEnv reads NOTIFIER_URL and NOTIFIER_TOKEN. With no URL the
// notifier is disabled and Send calls are no-ops.
func NewNotifierFromEnv() *Notifier {
	return &Notifier{
		endpoint: os.Getenv("NOTIFIER_URL"),
		token:    os.Getenv("NOTIFIER_TOKEN"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type mailMessage struct {
	To      string `json:"para"`
	Subject string `json:"assunto"`
	Body    string `json:"mensagem"`
}

// SendPasswordReset mails the reset link for the given token.
func (n *Notifier) SendPasswordReset(ctx context.Context, email, token string) error {
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return n.send(ctx, mailMessage{
		To:      email,
		Subject: "Redefinição de senha",
		Body: fmt.Sprintf("Para redefinir sua senha, acesse: %s/reset-password?token=%s\n"+
			"O link expira em breve. Se você não pediu a redefinição, ignore este e-mail.", base, token),
	})
}

func (n *Notifier) send(ctx context.Context, msg mailMessage) error {
	if n.endpoint == "" {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notifier request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notifier returned status %d", resp.StatusCode)
	}
	return nil
}
