package service

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_gateway/internal/models"
)

// IncidentSubmission - произвольная заявка клиента. Поля намеренно
// слабо типизированы: путь записи сам приводит их к канонической записи
type IncidentSubmission struct {
	IncidentID    string                 `json:"incidentId"`
	Type          string                 `json:"type"`
	Severity      any                    `json:"severity"`
	Status        string                 `json:"status"`
	Source        *SourceSubmission      `json:"source"`
	Location      *LocationSubmission    `json:"location"`
	TraversalPath []HopSubmission        `json:"traversalPath"`
	BaseReceipt   *BaseReceiptSubmission `json:"baseReceipt"`
	Payload       *PayloadSubmission     `json:"payload"`
}

type SourceSubmission struct {
	OriginNodeID    string     `json:"originNodeId"`
	DetectionMethod string     `json:"detectionMethod"`
	DetectedAt      *time.Time `json:"detectedAt"`
}

type LocationSubmission struct {
	Coordinates []float64 `json:"coordinates"`
	RegionCode  string    `json:"regionCode"`
	Description string    `json:"description"`
}

// HopSubmission несёт только те поля шага, которые путь записи пропускает
// в запись: hopIndex и nodeId. Остальные подполя шага заявкой не заполняются
type HopSubmission struct {
	HopIndex any    `json:"hopIndex"`
	NodeID   string `json:"nodeId"`
}

type BaseReceiptSubmission struct {
	BaseNodeID       string     `json:"baseNodeId"`
	ReceivedAt       *time.Time `json:"receivedAt"`
	ProcessingStatus string     `json:"processingStatus"`
}

type PayloadSubmission struct {
	Summary     string         `json:"summary"`
	Raw         map[string]any `json:"raw"`
	Attachments []string       `json:"attachments"`
}

// normalizeSubmission приводит заявку к канонической записи: генерирует
// incidentId при отсутствии, приводит severity, проставляет дефолты
// подобъектов и штампует audit, игнорируя любые audit-поля клиента
func normalizeSubmission(sub IncidentSubmission, now time.Time) *models.Incident {
	incident := &models.Incident{
		IncidentID: sub.IncidentID,
		Type:       sub.Type,
		Severity:   coerceSeverity(sub.Severity),
		Status:     sub.Status,
	}

	if incident.IncidentID == "" {
		incident.IncidentID = generateIncidentID()
	}
	if incident.Status == "" {
		incident.Status = models.StatusOpen
	}

	incident.Source = models.Source{
		DetectedAt: now,
	}
	if sub.Source != nil {
		incident.Source.OriginNodeID = sub.Source.OriginNodeID
		incident.Source.DetectionMethod = sub.Source.DetectionMethod
		if sub.Source.DetectedAt != nil {
			incident.Source.DetectedAt = *sub.Source.DetectedAt
		}
	}

	incident.Location = models.Location{
		Type:        "Point",
		Coordinates: []float64{0, 0},
	}
	if sub.Location != nil {
		if len(sub.Location.Coordinates) == 2 {
			incident.Location.Coordinates = sub.Location.Coordinates
		}
		incident.Location.RegionCode = sub.Location.RegionCode
		incident.Location.Description = sub.Location.Description
	}

	incident.TraversalPath = make([]models.Hop, 0, len(sub.TraversalPath))
	for i, hop := range sub.TraversalPath {
		incident.TraversalPath = append(incident.TraversalPath, models.Hop{
			HopIndex: coerceHopIndex(hop.HopIndex, i),
			NodeID:   hop.NodeID,
		})
	}

	incident.BaseReceipt = models.BaseReceipt{
		ReceivedAt:       now,
		ProcessingStatus: "queued",
	}
	if sub.BaseReceipt != nil {
		incident.BaseReceipt.BaseNodeID = sub.BaseReceipt.BaseNodeID
		if sub.BaseReceipt.ReceivedAt != nil {
			incident.BaseReceipt.ReceivedAt = *sub.BaseReceipt.ReceivedAt
		}
		if sub.BaseReceipt.ProcessingStatus != "" {
			incident.BaseReceipt.ProcessingStatus = sub.BaseReceipt.ProcessingStatus
		}
	}

	incident.Payload = models.Payload{
		Attachments: []string{},
	}
	if sub.Payload != nil {
		incident.Payload.Summary = sub.Payload.Summary
		incident.Payload.Raw = sub.Payload.Raw
		if sub.Payload.Attachments != nil {
			incident.Payload.Attachments = sub.Payload.Attachments
		}
	}

	incident.Audit = models.Audit{
		CreatedAt: now,
		UpdatedAt: now,
		Immutable: true,
	}
	return incident
}

// generateIncidentID выдаёт идентификатор вида INC-XXXXXXXX,
// где XXXXXXXX - первые 4 байта случайного UUID в верхнем регистре
func generateIncidentID() string {
	id := uuid.New()
	return "INC-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// coerceSeverity приводит произвольное JSON-значение к числу.
// Нечисловое значение даёт 1, результат зажимается в [1,10]
func coerceSeverity(v any) int {
	severity := 1
	switch value := v.(type) {
	case float64:
		severity = int(value)
	case int:
		severity = value
	case json.Number:
		if f, err := value.Float64(); err == nil {
			severity = int(f)
		}
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			severity = int(f)
		}
	}

	if severity < 1 {
		severity = 1
	}
	if severity > 10 {
		severity = 10
	}
	return severity
}

// coerceHopIndex возвращает явно заданный числовой hopIndex,
// иначе позицию шага во входной последовательности
func coerceHopIndex(v any, position int) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case int:
		return value
	case json.Number:
		if f, err := value.Float64(); err == nil {
			return int(f)
		}
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return int(f)
		}
	}
	return position
}
