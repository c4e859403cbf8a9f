package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T) (*RedisInsertFeed, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return NewRedisInsertFeed(client, logger), client
}

func receiveIncident(t *testing.T, sub InsertSubscription) *models.Incident {
	t.Helper()
	select {
	case incident, ok := <-sub.Incidents():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return incident
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for insert notification")
		return nil
	}
}

func TestRedisInsertFeed_DeliversPublishedIncidents(t *testing.T) {
	feed, client := newTestFeed(t)
	ctx := context.Background()

	sub, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	doc, err := json.Marshal(&models.Incident{
		IncidentID: "INC-0AF31B2C",
		Type:       "flood",
		Severity:   5,
		Status:     models.StatusOpen,
	})
	require.NoError(t, err)
	require.NoError(t, client.Publish(ctx, InsertChannel, doc).Err())

	incident := receiveIncident(t, sub)
	assert.Equal(t, "INC-0AF31B2C", incident.IncidentID)
	assert.Equal(t, "flood", incident.Type)
	assert.Equal(t, 5, incident.Severity)
}

func TestRedisInsertFeed_SkipsMalformedPayload(t *testing.T) {
	feed, client := newTestFeed(t)
	ctx := context.Background()

	sub, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	// Битый payload не валит подписку, следующее сообщение доходит
	require.NoError(t, client.Publish(ctx, InsertChannel, "{not json").Err())

	doc, err := json.Marshal(&models.Incident{IncidentID: "INC-22222222"})
	require.NoError(t, err)
	require.NoError(t, client.Publish(ctx, InsertChannel, doc).Err())

	incident := receiveIncident(t, sub)
	assert.Equal(t, "INC-22222222", incident.IncidentID)
}

func TestRedisInsertFeed_CloseClosesChannel(t *testing.T) {
	feed, _ := newTestFeed(t)

	sub, err := feed.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Incidents():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed after Close")
	}
}
