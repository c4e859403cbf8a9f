package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики шлюза. Регистрируются в дефолтном реестре prometheus
// и отдаются через /metrics
var (
	IncidentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incidents_created_total",
		Help: "Number of incidents persisted through the write path.",
	})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stream_clients",
		Help: "Number of currently attached stream subscribers.",
	})

	StreamEventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_events_delivered_total",
		Help: "Stream events accepted by subscriber buffers.",
	})

	StreamEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_events_dropped_total",
		Help: "Stream events dropped due to subscriber backpressure.",
	})

	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "Webhook delivery attempts by outcome.",
	}, []string{"outcome"})
)
