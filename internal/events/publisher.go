package events

import (
	"context"
	"encoding/json"
	"time"

	"stresswatch/internal/domain"

	"github.com/go-redis/redis/v8"
)

// DetectionEvent is published after every successfully appended detection,
// for downstream consumers (dashboards, notification fan-out).
type DetectionEvent struct {
	DetectionID string                `json:"detection_id"`
	SubjectID   string                `json:"subject_id"`
	Result      string                `json:"result"`
	Condition   domain.ConditionLabel `json:"condition"`
	Timestamp   time.Time             `json:"timestamp"`
}

// Publisher delivers detection events. Publishing is best-effort: the caller
// logs failures and moves on, the appended record is already authoritative.
type Publisher interface {
	PublishDetection(ctx context.Context, evt DetectionEvent) error
}

// StreamPublisher writes events to a Redis Stream via XADD.
type StreamPublisher struct {
	c      *redis.Client
	stream string
}

func NewStreamPublisher(c *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{c: c, stream: stream}
}

var _ Publisher = (*StreamPublisher)(nil)

func (p *StreamPublisher) PublishDetection(ctx context.Context, evt DetectionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.c.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
