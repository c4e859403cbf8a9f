package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/sirupsen/logrus"
)

// InsertChannel - Redis-канал, в который хранилище публикует каждый успешно
// вставленный документ инцидента
const InsertChannel = "incidents:inserted"

// InsertFeed - источник уведомлений о вставках. Хаб держит не более одной
// активной подписки на весь процесс
type InsertFeed interface {
	Subscribe(ctx context.Context) (InsertSubscription, error)
}

// InsertSubscription - одна активная подписка. Канал Incidents закрывается
// при ошибке подписки или после Close
type InsertSubscription interface {
	Incidents() <-chan *models.Incident
	Close() error
}

// RedisInsertFeed реализует InsertFeed поверх Redis pub/sub
type RedisInsertFeed struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisInsertFeed(client *redis.Client, logger *logrus.Logger) *RedisInsertFeed {
	return &RedisInsertFeed{
		client: client,
		logger: logger,
	}
}

// Subscribe открывает подписку и дожидается подтверждения от Redis,
// чтобы вставки после возврата гарантированно попадали в канал
func (f *RedisInsertFeed) Subscribe(ctx context.Context) (InsertSubscription, error) {
	pubsub := f.client.Subscribe(ctx, InsertChannel)

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to insert channel: %w", err)
	}

	sub := &redisInsertSubscription{
		pubsub: pubsub,
		out:    make(chan *models.Incident),
	}

	go func() {
		defer close(sub.out)
		for msg := range pubsub.Channel() {
			incident := &models.Incident{}
			if err := json.Unmarshal([]byte(msg.Payload), incident); err != nil {
				f.logger.WithError(err).Error("Failed to decode insert notification payload")
				continue
			}
			sub.out <- incident
		}
	}()

	return sub, nil
}

type redisInsertSubscription struct {
	pubsub *redis.PubSub
	out    chan *models.Incident
}

func (s *redisInsertSubscription) Incidents() <-chan *models.Incident {
	return s.out
}

// Close останавливает подписку; канал Incidents после этого закрывается
func (s *redisInsertSubscription) Close() error {
	return s.pubsub.Close()
}
