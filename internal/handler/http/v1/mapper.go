package v1

import (
	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/shenikar/incident_gateway/internal/service"
)

// DTOToSubmission преобразует DTO заявки в заявку пути записи
func DTOToSubmission(dto CreateIncidentRequest) service.IncidentSubmission {
	sub := service.IncidentSubmission{
		IncidentID: dto.IncidentID,
		Type:       dto.Type,
		Severity:   dto.Severity,
		Status:     dto.Status,
	}

	if dto.Source != nil {
		sub.Source = &service.SourceSubmission{
			OriginNodeID:    dto.Source.OriginNodeID,
			DetectionMethod: dto.Source.DetectionMethod,
			DetectedAt:      dto.Source.DetectedAt,
		}
	}
	if dto.Location != nil {
		sub.Location = &service.LocationSubmission{
			Coordinates: dto.Location.Coordinates,
			RegionCode:  dto.Location.RegionCode,
			Description: dto.Location.Description,
		}
	}
	for _, hop := range dto.TraversalPath {
		sub.TraversalPath = append(sub.TraversalPath, service.HopSubmission{
			HopIndex: hop.HopIndex,
			NodeID:   hop.NodeID,
		})
	}
	if dto.BaseReceipt != nil {
		sub.BaseReceipt = &service.BaseReceiptSubmission{
			BaseNodeID:       dto.BaseReceipt.BaseNodeID,
			ReceivedAt:       dto.BaseReceipt.ReceivedAt,
			ProcessingStatus: dto.BaseReceipt.ProcessingStatus,
		}
	}
	if dto.Payload != nil {
		sub.Payload = &service.PayloadSubmission{
			Summary:     dto.Payload.Summary,
			Raw:         dto.Payload.Raw,
			Attachments: dto.Payload.Attachments,
		}
	}
	return sub
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:            model.ID,
		IncidentID:    model.IncidentID,
		Type:          model.Type,
		Severity:      model.Severity,
		Status:        model.Status,
		Source:        model.Source,
		Location:      model.Location,
		TraversalPath: model.TraversalPath,
		BaseReceipt:   model.BaseReceipt,
		Payload:       model.Payload,
		Audit:         model.Audit,
	}
}

// PageToListResponse преобразует страницу сервиса в DTO списка
func PageToListResponse(page *service.IncidentPage) *ListIncidentsResponse {
	responses := make([]*IncidentResponse, len(page.Data))
	for i, model := range page.Data {
		responses[i] = ModelToIncidentResponse(model)
	}
	return &ListIncidentsResponse{
		Data:       responses,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
