package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/incident_gateway/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, cfg *config.Config) *Worker {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	_, client := newTestRedis(t)
	return NewWorker(client, logger, cfg)
}

func TestProcessEvent_DeliversSignedPayload(t *testing.T) {
	var gotBody atomic.Value
	var gotSignature atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		gotSignature.Store(r.Header.Get("X-Webhook-Signature"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(t, cfg)

	event := IncidentEvent{IncidentID: "INC-0AF31B2C", Type: "fire", Severity: 7}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	worker.processEvent(context.Background(), event, string(payload))

	assert.Equal(t, string(payload), gotBody.Load())
	assert.Equal(t, generateHMACSHA256(string(payload), "s3cret"), gotSignature.Load())
}

func TestProcessEvent_RetriesUntilExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(t, cfg)

	worker.processEvent(context.Background(), IncidentEvent{IncidentID: "INC-0AF31B2C"}, `{"incidentId":"INC-0AF31B2C"}`)

	assert.Equal(t, int32(3), attempts.Load())
}

func TestProcessEvent_RecoversAfterFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(t, cfg)

	worker.processEvent(context.Background(), IncidentEvent{IncidentID: "INC-0AF31B2C"}, `{"incidentId":"INC-0AF31B2C"}`)

	assert.Equal(t, int32(2), attempts.Load())
}

func TestProcessEvent_SkippedWithoutURL(t *testing.T) {
	cfg := &config.Config{
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(t, cfg)

	// URL не настроен: доставка пропускается без попыток отправки
	worker.processEvent(context.Background(), IncidentEvent{IncidentID: "INC-0AF31B2C"}, `{"incidentId":"INC-0AF31B2C"}`)
}

func TestWorker_ConsumesQueuedEvents(t *testing.T) {
	var gotBody atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	_, client := newTestRedis(t)
	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := NewWorker(client, logger, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	publisher := NewRedisPublisher(client)
	require.NoError(t, publisher.Publish(ctx, IncidentEvent{IncidentID: "INC-0AF31B2C", Type: "fire"}))

	require.Eventually(t, func() bool {
		body, ok := gotBody.Load().(string)
		return ok && body != ""
	}, 2*time.Second, 10*time.Millisecond)

	var delivered IncidentEvent
	require.NoError(t, json.Unmarshal([]byte(gotBody.Load().(string)), &delivered))
	assert.Equal(t, "INC-0AF31B2C", delivered.IncidentID)
}
