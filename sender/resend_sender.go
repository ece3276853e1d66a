package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultResendBaseURL = "https://api.resend.com"

// ResendSender delivers transactional email through the Resend HTTP API.
type ResendSender struct {
	APIKey  string
	From    string
	BaseURL string
	Client  *http.Client
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{
		APIKey:  apiKey,
		From:    "ArbInq <no-reply@arbinquiry.com>",
		BaseURL: defaultResendBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *ResendSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	payload, err := json.Marshal(map[string]string{
		"from":    s.From,
		"to":      to,
		"subject": subject,
		"text":    body,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return SendResult{}, fmt.Errorf("resend api error: status %d: %s", resp.StatusCode, errBody)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SendResult{}, fmt.Errorf("decode resend response: %w", err)
	}

	return SendResult{MessageID: result.ID, SentAt: time.Now()}, nil
}
