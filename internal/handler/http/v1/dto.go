package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_gateway/internal/models"
)

// CreateIncidentRequest DTO для заявки на создание инцидента.
// Поля частичны и слабо типизированы: канонизацию выполняет путь записи
// @Description DTO для заявки на создание инцидента
type CreateIncidentRequest struct {
	IncidentID    string              `json:"incidentId" validate:"omitempty,max=64"`
	Type          string              `json:"type" validate:"omitempty,max=64"`
	Severity      any                 `json:"severity"`
	Status        string              `json:"status" validate:"omitempty,oneof=open in_progress resolved archived"`
	Source        *SourceRequest      `json:"source"`
	Location      *LocationRequest    `json:"location"`
	TraversalPath []HopRequest        `json:"traversalPath" validate:"omitempty,dive"`
	BaseReceipt   *BaseReceiptRequest `json:"baseReceipt"`
	Payload       *PayloadRequest     `json:"payload"`
}

type SourceRequest struct {
	OriginNodeID    string     `json:"originNodeId"`
	DetectionMethod string     `json:"detectionMethod" validate:"omitempty,oneof=sensor human ai"`
	DetectedAt      *time.Time `json:"detectedAt"`
}

type LocationRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"omitempty,len=2"`
	RegionCode  string    `json:"regionCode"`
	Description string    `json:"description"`
}

type HopRequest struct {
	HopIndex any    `json:"hopIndex"`
	NodeID   string `json:"nodeId" validate:"omitempty,max=128"`
}

type BaseReceiptRequest struct {
	BaseNodeID       string     `json:"baseNodeId"`
	ReceivedAt       *time.Time `json:"receivedAt"`
	ProcessingStatus string     `json:"processingStatus" validate:"omitempty,oneof=queued processing completed"`
}

type PayloadRequest struct {
	Summary     string         `json:"summary"`
	Raw         map[string]any `json:"raw"`
	Attachments []string       `json:"attachments"`
}

// IncidentResponse DTO для ответа с полным документом инцидента
// @Description DTO для ответа с полным документом инцидента
type IncidentResponse struct {
	ID            uuid.UUID          `json:"id"`
	IncidentID    string             `json:"incidentId"`
	Type          string             `json:"type"`
	Severity      int                `json:"severity"`
	Status        string             `json:"status"`
	Source        models.Source      `json:"source"`
	Location      models.Location    `json:"location"`
	TraversalPath []models.Hop       `json:"traversalPath"`
	BaseReceipt   models.BaseReceipt `json:"baseReceipt"`
	Payload       models.Payload     `json:"payload"`
	Audit         models.Audit       `json:"audit"`
}

// ListIncidentsResponse DTO для страницы списка инцидентов
// @Description DTO для страницы списка инцидентов
type ListIncidentsResponse struct {
	Data       []*IncidentResponse `json:"data"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
}

// LoginRequest DTO для проверки учетных данных
// @Description DTO для проверки учетных данных
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse DTO для результата проверки учетных данных
// @Description DTO для результата проверки учетных данных
type LoginResponse struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}
