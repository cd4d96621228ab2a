// Package publish sends per-step simulation summaries to a message broker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/talgya/tradewar/internal/engine"
)

// ActionSummary is the wire form of one action.
type ActionSummary struct {
	Country   string  `json:"country"`
	Type      string  `json:"action_type"`
	Target    string  `json:"target_country,omitempty"`
	Magnitude float64 `json:"magnitude"`
}

// Summary is the message published after every step.
type Summary struct {
	RunID       string             `json:"run_id"`
	Year        int                `json:"year"`
	Quarter     int                `json:"quarter"`
	Step        int                `json:"step"`
	GDP         map[string]float64 `json:"gdp"`
	Stability   float64            `json:"stability"`
	Trend       string             `json:"trend"`
	Actions     []ActionSummary    `json:"actions"`
	Events      []string           `json:"events,omitempty"`
	PublishedAt time.Time          `json:"published_at"`
}

// NewSummary builds a summary from a step report.
func NewSummary(runID string, r engine.StepReport) Summary {
	s := Summary{
		RunID:       runID,
		Year:        r.Year,
		Quarter:     r.Quarter,
		Step:        r.Step,
		GDP:         r.GDP,
		Stability:   r.Stability.Score,
		Trend:       r.Stability.Trend,
		Actions:     make([]ActionSummary, 0, len(r.Actions)),
		PublishedAt: time.Now().UTC(),
	}
	for _, a := range r.Actions {
		s.Actions = append(s.Actions, ActionSummary{
			Country:   a.Country,
			Type:      string(a.Type),
			Target:    a.Target,
			Magnitude: a.Magnitude,
		})
	}
	for _, e := range r.Events {
		s.Events = append(s.Events, e.Name)
	}
	return s
}

// Publisher delivers step summaries.
type Publisher interface {
	Publish(ctx context.Context, s Summary) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes summaries as JSON messages keyed by run id.
type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaPublisher connects a batched async writer to broker/topic.
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return NewPublisher(&kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Compression:  kafka.Zstd,
	})
}

// NewPublisher wraps an existing writer.
func NewPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, s Summary) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(s.RunID),
		Value: value,
		Time:  s.PublishedAt,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// Nop discards summaries.
type Nop struct{}

func (Nop) Publish(context.Context, Summary) error { return nil }
func (Nop) Close() error                           { return nil }
