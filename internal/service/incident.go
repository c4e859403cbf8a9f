package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_gateway/internal/metrics"
	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/shenikar/incident_gateway/internal/webhook"
	"github.com/sirupsen/logrus"
)

// Ошибки уровня хранилища, различаемые вызывающей стороной
var (
	ErrIncidentNotFound    = errors.New("incident not found")
	ErrDuplicateIncidentID = errors.New("duplicate incidentId")
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, page, limit int) ([]*models.Incident, int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	DeleteByIncidentIDs(ctx context.Context, incidentIDs []string) error
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
}

// IncidentService определяет контракт бизнес-логики путей записи и чтения
type IncidentService interface {
	CreateIncident(ctx context.Context, sub IncidentSubmission) (*models.Incident, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, limit int) (*IncidentPage, error)
	SeedIncidents(ctx context.Context, subs []IncidentSubmission) (int, error)
}

// IncidentPage - страница списка инцидентов с метаданными пагинации
type IncidentPage struct {
	Data       []*models.Incident
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	publisher webhook.Publisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, publisher webhook.Publisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// CreateIncident нормализует произвольную заявку в каноническую запись и
// сохраняет её одной атомарной вставкой
func (s *incidentService) CreateIncident(ctx context.Context, sub IncidentSubmission) (*models.Incident, error) {
	incident := normalizeSubmission(sub, time.Now().UTC())

	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CreateIncident",
		"incident_id": incident.IncidentID,
	})
	log.Info("Attempting to create a new incident")

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	metrics.IncidentsCreated.Inc()

	// Доставка вебхука не влияет на результат запроса: запись уже сохранена
	if err := s.publisher.Publish(ctx, webhook.NewIncidentEvent(incident)); err != nil {
		log.WithError(err).Warn("Failed to enqueue incident webhook")
	}

	log.WithField("id", incident.ID).Info("Incident created successfully")
	return incident, nil
}

// GetIncident получает инцидент по идентификатору хранилища, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetIncident",
		"id":      id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIncidentNotFound) {
			return nil, err
		}
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает страницу инцидентов от новых к старым.
// Неположительные значения приводятся к page=1 / limit=10
func (s *incidentService) ListIncidents(ctx context.Context, page, limit int) (*IncidentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"page":    page,
		"limit":   limit,
	})

	incidents, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed")
	return &IncidentPage{
		Data:       incidents,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// SeedIncidents перезаписывает набор инцидентов из сид-данных: существующие
// записи с теми же incidentId удаляются, затем каждая заявка проходит обычный
// путь записи. Используется только утилитой массовой загрузки
func (s *incidentService) SeedIncidents(ctx context.Context, subs []IncidentSubmission) (int, error) {
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.IncidentID != "" {
			ids = append(ids, sub.IncidentID)
		}
	}
	if err := s.repo.DeleteByIncidentIDs(ctx, ids); err != nil {
		return 0, fmt.Errorf("service: could not clear seeded incidents: %w", err)
	}

	inserted := 0
	for _, sub := range subs {
		if _, err := s.CreateIncident(ctx, sub); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
