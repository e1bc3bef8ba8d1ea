package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/search"
)

type published struct {
	channel string
	payload []byte
}

type fakeRedis struct {
	sent []published
	err  error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.sent = append(f.sent, published{channel: channel, payload: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

func TestPublishStatusChanged_RoundTrip(t *testing.T) {
	r := &fakeRedis{}
	p := NewPublisher(r)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := lifecycle.Event{CandidateID: 7, From: lifecycle.StatusOutreach, To: lifecycle.StatusContacted, Action: lifecycle.ActionSendMessage, At: at}

	require.NoError(t, p.PublishStatusChanged(context.Background(), e))
	require.Len(t, r.sent, 1)
	assert.Equal(t, ChannelStatusChanged, r.sent[0].channel)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(r.sent[0].payload, &raw))
	assert.Equal(t, ChannelStatusChanged, raw["type"])
	assert.Equal(t, "contacted", raw["to"])

	got, err := DecodeStatusChanged(string(r.sent[0].payload))
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestPublishSearchCompleted(t *testing.T) {
	r := &fakeRedis{}
	p := NewPublisher(r)
	rep := search.Report{ID: "run-1", Mode: search.ModeBatch, Keywords: []string{"a", "b"}, Failed: []string{"b"},
		Result: model.SearchResult{TotalFound: 5, TotalSaved: 2, SearchMethod: "api", KeywordsSearched: 2}}

	require.NoError(t, p.PublishSearchCompleted(context.Background(), rep))
	require.Len(t, r.sent, 1)
	assert.Equal(t, ChannelSearchCompleted, r.sent[0].channel)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(r.sent[0].payload, &raw))
	assert.Equal(t, "run-1", raw["id"])
	result := raw["result"].(map[string]any)
	assert.EqualValues(t, 2, result["keywords_searched"])
}

func TestPublish_ErrorIsWrapped(t *testing.T) {
	p := NewPublisher(&fakeRedis{err: errors.New("READONLY")})
	err := p.PublishStatusChanged(context.Background(), lifecycle.Event{CandidateID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ChannelStatusChanged)
}

func TestDecodeStatusChanged_Rejects(t *testing.T) {
	_, err := DecodeStatusChanged("not json")
	assert.Error(t, err)
	_, err = DecodeStatusChanged(`{"type":"EVENT_CANDIDATE_STATUS_CHANGED"}`)
	assert.Error(t, err)
}
