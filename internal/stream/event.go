package stream

import (
	"time"

	"github.com/shenikar/incident_gateway/internal/models"
)

// Event - облегчённая проекция инцидента, уходящая подписчикам потока.
// Полный документ клиентам не отдаётся
type Event struct {
	IncidentID            string     `json:"incidentId"`
	Type                  string     `json:"type"`
	Severity              int        `json:"severity"`
	BaseReceiptReceivedAt *time.Time `json:"baseReceiptReceivedAt"`
	TraversalPathLength   int        `json:"traversalPathLength"`
}

// NewEvent строит проекцию по вставленному документу
func NewEvent(incident *models.Incident) Event {
	ev := Event{
		IncidentID:          incident.IncidentID,
		Type:                incident.Type,
		Severity:            incident.Severity,
		TraversalPathLength: len(incident.TraversalPath),
	}
	if !incident.BaseReceipt.ReceivedAt.IsZero() {
		receivedAt := incident.BaseReceipt.ReceivedAt
		ev.BaseReceiptReceivedAt = &receivedAt
	}
	return ev
}
