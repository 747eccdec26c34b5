package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// GatewayConfig configures the HTTP messaging gateway.
type GatewayConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

type gatewayMessage struct {
	Channel NotificationType `json:"channel"`
	To      string           `json:"to"`
	Subject string           `json:"subject,omitempty"`
	Body    string           `json:"body"`
}

type gatewayReply struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// GatewaySender delivers every channel through a single HTTP messaging
// gateway that fronts the voice, SMS, WhatsApp and email providers.
type GatewaySender struct {
	client *resty.Client
}

func NewGatewaySender(cfg GatewayConfig) *GatewaySender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &GatewaySender{client: client}
}

func (g *GatewaySender) post(ctx context.Context, msg gatewayMessage) error {
	var reply gatewayReply
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&reply).
		SetError(&reply).
		Post("/v1/messages")
	if err != nil {
		return fmt.Errorf("gateway %s: %w", msg.Channel, err)
	}
	if resp.IsError() {
		if reply.Error != "" {
			return fmt.Errorf("gateway %s: status %d: %s", msg.Channel, resp.StatusCode(), reply.Error)
		}
		return fmt.Errorf("gateway %s: status %d", msg.Channel, resp.StatusCode())
	}
	return nil
}

func (g *GatewaySender) SendEmail(ctx context.Context, to, subject, body string) error {
	return g.post(ctx, gatewayMessage{Channel: TypeEmail, To: to, Subject: subject, Body: body})
}

func (g *GatewaySender) SendSMS(ctx context.Context, to, body string) error {
	return g.post(ctx, gatewayMessage{Channel: TypeSMS, To: to, Body: body})
}

func (g *GatewaySender) SendWhatsApp(ctx context.Context, to, body string) error {
	return g.post(ctx, gatewayMessage{Channel: TypeWhatsApp, To: to, Body: body})
}

func (g *GatewaySender) PlaceCall(ctx context.Context, to, message string) error {
	return g.post(ctx, gatewayMessage{Channel: TypeCall, To: to, Body: message})
}
