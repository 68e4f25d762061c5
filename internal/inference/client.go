package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Oracle-boundary failures. Neither is retried here; retry policy belongs to
// the caller.
var (
	// ErrUnavailable: transport failure or non-2xx status from the oracle.
	ErrUnavailable = errors.New("inference service unavailable")
	// ErrMalformedResponse: 2xx status but a body that is not the expected
	// JSON object.
	ErrMalformedResponse = errors.New("malformed inference response")
)

// FallbackResult is substituted when the oracle answers 2xx with none of the
// recognized result fields populated. Inference success with an empty
// payload is not an error.
const FallbackResult = "Result received"

// Request is the oracle's input schema: the three validated readings plus
// the encoded 3-axis activity vector in place of raw accelerometer samples.
type Request struct {
	BVP  float64 `json:"BVP"`
	EDA  float64 `json:"EDA"`
	Temp float64 `json:"TEMP"`
	AccX int     `json:"ACC_x"`
	AccY int     `json:"ACC_y"`
	AccZ int     `json:"ACC_z"`
}

// Outcome carries the oracle's display result (never empty) and optional
// advisory text ("" when absent).
type Outcome struct {
	Result string
	Advice string
}

// responseBody covers the field names different oracle builds have used for
// the result string. Preference order: result, prediction, status.
type responseBody struct {
	Result     string `json:"result"`
	Prediction string `json:"prediction"`
	Status     string `json:"status"`
	Advice     string `json:"advice"`
}

// Client calls the external stress-inference oracle.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates an oracle client. The base URL is injected so tests can
// point it at an httptest server.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// Predict issues one synchronous inference call. The context bounds the
// call; on cancellation or timeout nothing is persisted anywhere.
func (c *Client) Predict(ctx context.Context, req Request) (*Outcome, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post("/predict")
	if err != nil {
		c.logger.Error("Inference call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		c.logger.Error("Inference service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", body),
		)
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode(), body)
	}

	var payload responseBody
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	result := firstNonEmpty(payload.Result, payload.Prediction, payload.Status)
	if result == "" {
		result = FallbackResult
	}

	c.logger.Debug("Inference result received",
		zap.String("result", result),
		zap.Bool("advice_present", payload.Advice != ""),
	)

	return &Outcome{Result: result, Advice: payload.Advice}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
