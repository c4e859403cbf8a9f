package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident - центральная сущность шлюза: отчёт об опасности с полной историей
// обнаружения, маршрута и приёма базовым узлом
type Incident struct {
	ID            uuid.UUID   `json:"id"`
	IncidentID    string      `json:"incidentId"`
	Type          string      `json:"type"`
	Severity      int         `json:"severity"`
	Status        string      `json:"status"`
	Source        Source      `json:"source"`
	Location      Location    `json:"location"`
	TraversalPath []Hop       `json:"traversalPath"`
	BaseReceipt   BaseReceipt `json:"baseReceipt"`
	Payload       Payload     `json:"payload"`
	Audit         Audit       `json:"audit"`
}

// Статусы жизненного цикла инцидента: open -> in_progress -> resolved/archived.
// Переходы контролирует вызывающая сторона, хранилище их не проверяет
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusArchived   = "archived"
)

// Source описывает узел, обнаруживший инцидент
type Source struct {
	OriginNodeID    string    `json:"originNodeId"`
	DetectionMethod string    `json:"detectionMethod"` // sensor | human | ai
	DetectedAt      time.Time `json:"detectedAt"`
}

// Location - геоточка инцидента. Координаты всегда в порядке [lng, lat],
// иначе геоиндекс в хранилище становится бесполезным
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	RegionCode  string    `json:"regionCode"`
	Description string    `json:"description,omitempty"`
}

// Hop - один шаг маршрута отчёта от источника до центрального хранилища.
// HopIndex задаётся продюсером явно и не выводится из позиции в массиве
type Hop struct {
	HopIndex    int           `json:"hopIndex"`
	NodeID      string        `json:"nodeId"`
	NodeType    string        `json:"nodeType,omitempty"` // edge | relay | regional | base
	ReceivedAt  *time.Time    `json:"receivedAt,omitempty"`
	ForwardedAt *time.Time    `json:"forwardedAt,omitempty"`
	Transport   *HopTransport `json:"transport,omitempty"`
	Geo         *HopGeo       `json:"geo,omitempty"`
	Integrity   *HopIntegrity `json:"integrity,omitempty"`
}

// HopTransport - транспортные метрики шага
type HopTransport struct {
	Protocol       string   `json:"protocol"` // http | mqtt | radio | satellite
	LatencyMs      *float64 `json:"latencyMs,omitempty"`
	SignalStrength *float64 `json:"signalStrength,omitempty"`
	Encrypted      bool     `json:"encrypted"`
}

// HopGeo - координаты узла на момент шага
type HopGeo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HopIntegrity - контрольная сумма шага и флаг её проверки
type HopIntegrity struct {
	Checksum string `json:"checksum,omitempty"`
	Verified bool   `json:"verified"`
}

// BaseReceipt - приём отчёта базовым узлом
type BaseReceipt struct {
	BaseNodeID       string    `json:"baseNodeId"`
	ReceivedAt       time.Time `json:"receivedAt"`
	ProcessingStatus string    `json:"processingStatus"` // queued | processing | completed
}

// Payload - содержимое отчёта
type Payload struct {
	Summary     string         `json:"summary"`
	Raw         map[string]any `json:"raw,omitempty"`
	Attachments []string       `json:"attachments"`
}

// Audit - метки создания/обновления. Immutable выставляется при создании и
// означает, что запись дальше не меняется (соглашение, хранилищем не проверяется)
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Immutable bool      `json:"immutable"`
}
