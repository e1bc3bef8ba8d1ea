// Package events publishes sourcing events on Redis pub/sub and consumes
// status changes made by other replicas.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/search"
)

// Channel names.
const (
	ChannelStatusChanged   = "EVENT_CANDIDATE_STATUS_CHANGED"
	ChannelSearchCompleted = "EVENT_SEARCH_COMPLETED"
)

type statusChanged struct {
	Type string `json:"type"`
	lifecycle.Event
}

type searchCompleted struct {
	Type string `json:"type"`
	search.Report
}

// redisPublisher is the part of *redis.Client the Publisher uses.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher implements lifecycle.Publisher and search.Notifier over Redis.
type Publisher struct {
	rdb redisPublisher
}

// NewPublisher returns a Publisher on rdb.
func NewPublisher(rdb redisPublisher) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishStatusChanged announces a confirmed lifecycle transition.
func (p *Publisher) PublishStatusChanged(ctx context.Context, e lifecycle.Event) error {
	return p.publish(ctx, ChannelStatusChanged, statusChanged{Type: ChannelStatusChanged, Event: e})
}

// PublishSearchCompleted announces a finished search run.
func (p *Publisher) PublishSearchCompleted(ctx context.Context, r search.Report) error {
	return p.publish(ctx, ChannelSearchCompleted, searchCompleted{Type: ChannelSearchCompleted, Report: r})
}

func (p *Publisher) publish(ctx context.Context, channel string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", channel, err)
	}
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// DecodeStatusChanged parses a status-changed payload.
func DecodeStatusChanged(payload string) (lifecycle.Event, error) {
	var msg statusChanged
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return lifecycle.Event{}, fmt.Errorf("decode %s: %w", ChannelStatusChanged, err)
	}
	if msg.CandidateID == 0 {
		return lifecycle.Event{}, fmt.Errorf("decode %s: missing candidateId", ChannelStatusChanged)
	}
	return msg.Event, nil
}

// Subscribe listens for status changes until ctx is done, calling handle for
// each well-formed event. Malformed payloads are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, handle func(lifecycle.Event)) error {
	sub := rdb.Subscribe(ctx, ChannelStatusChanged)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ChannelStatusChanged, err)
	}
	slog.Info("[events] subscribed", "channel", ChannelStatusChanged)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			e, err := DecodeStatusChanged(msg.Payload)
			if err != nil {
				slog.Warn("[events] dropping message", "err", err)
				continue
			}
			handle(e)
		}
	}
}
