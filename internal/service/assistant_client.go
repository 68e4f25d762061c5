package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// AssistantClient is a stateless pass-through to the external
// text-generation service behind the in-app assistant. No retry policy; a
// failed call is surfaced to the caller as-is.
type AssistantClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type assistantRequest struct {
	Message string `json:"message"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

func NewAssistantClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AssistantClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &AssistantClient{
		httpClient: client,
		logger:     logger,
	}
}

// Chat forwards one free-text message and returns the free-text reply.
func (c *AssistantClient) Chat(ctx context.Context, message string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(assistantRequest{Message: message}).
		Post("/chat")
	if err != nil {
		c.logger.Error("Assistant call failed", zap.Error(err))
		return "", fmt.Errorf("call assistant service: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("assistant service returned status %d: %s",
			resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	var payload assistantResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	return payload.Reply, nil
}
