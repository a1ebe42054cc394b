package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPGateway sends SMS through the provider's REST API.
type HTTPGateway struct {
	client *resty.Client
	sender string
}

type smsRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

type smsResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// NewHTTPGateway builds a gateway client from SMS_API_URL, SMS_API_TOKEN
// and SMS_SENDER_ID. Retries are left to the provider side; the
// dispatcher already serializes calls for its rate limit.
func NewHTTPGateway() *HTTPGateway {
	baseURL := os.Getenv("SMS_API_URL")
	if baseURL == "" {
		baseURL = "https://sms.example.com/v1"
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetAuthToken(os.Getenv("SMS_API_TOKEN")).
		SetHeader("Content-Type", "application/json")

	sender := os.Getenv("SMS_SENDER_ID")
	if sender == "" {
		sender = "CoolCare"
	}

	return &HTTPGateway{client: client, sender: sender}
}

// Send delivers one message and normalizes the provider reply.
func (g *HTTPGateway) Send(ctx context.Context, mobile, body string) (*SendResult, error) {
	var parsed smsResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(smsRequest{To: mobile, From: g.sender, Body: body}).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/messages")
	if err != nil {
		return nil, fmt.Errorf("sms gateway request failed: %w", err)
	}

	if resp.IsError() || parsed.Status != "sent" {
		reason := parsed.Error
		if reason == "" {
			reason = fmt.Sprintf("provider returned status %s (%s)", parsed.Status, resp.Status())
		}
		return &SendResult{OK: false, Body: reason}, nil
	}

	return &SendResult{OK: true, MessageID: parsed.MessageID, Body: parsed.Status}, nil
}
