package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_gateway/internal/models"
)

const webhookQueueKey = "webhook_events"

// IncidentEvent - данные вебхука о созданном инциденте
type IncidentEvent struct {
	IncidentID string    `json:"incidentId"`
	Type       string    `json:"type"`
	Severity   int       `json:"severity"`
	Status     string    `json:"status"`
	RegionCode string    `json:"regionCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewIncidentEvent строит событие вебхука по сохранённой записи
func NewIncidentEvent(incident *models.Incident) IncidentEvent {
	return IncidentEvent{
		IncidentID: incident.IncidentID,
		Type:       incident.Type,
		Severity:   incident.Severity,
		Status:     incident.Status,
		RegionCode: incident.Location.RegionCode,
		CreatedAt:  incident.Audit.CreatedAt,
	}
}

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher - интерфейс для публикации вебхуков
type Publisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisPublisher - реализация Publisher, использующая очередь в Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish кладет событие вебхука в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
