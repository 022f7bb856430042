package sender

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const africasTalkingURL = "https://api.sandbox.africastalking.com/version1/messaging"

// AfricasTalkingSender delivers SMS through the Africa's Talking messaging API
type AfricasTalkingSender struct {
	apiKey     string
	username   string
	senderID   string
	apiURL     string
	httpClient *http.Client
}

func NewAfricasTalkingSender(apiKey, username, senderID string) (*AfricasTalkingSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("SMS_API_KEY not set")
	}
	if username == "" {
		return nil, fmt.Errorf("SMS_USERNAME not set")
	}

	return &AfricasTalkingSender{
		apiKey:     apiKey,
		username:   username,
		senderID:   senderID,
		apiURL:     africasTalkingURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (s *AfricasTalkingSender) SendSMS(ctx context.Context, to, msg string) (SendResult, error) {
	formData := url.Values{}
	formData.Set("username", s.username)
	formData.Set("to", to)
	formData.Set("message", msg)
	if s.senderID != "" {
		formData.Set("from", s.senderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apiKey", s.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return SendResult{}, fmt.Errorf("sms provider error %s: %s", resp.Status, string(respBody))
	}

	return SendResult{
		MessageID: fmt.Sprintf("at-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
