package stream

import (
	"context"
	"sync"

	"github.com/shenikar/incident_gateway/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Hub держит множество подключённых подписчиков и единственную подписку на
// уведомления о вставках. Подписка стартует лениво на первом Attach и
// останавливается на последнем Detach. Всё состояние меняется только через
// Attach/Detach/Shutdown
type Hub struct {
	feed   InsertFeed
	logger *logrus.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	sub     InsertSubscription
}

func NewHub(feed InsertFeed, logger *logrus.Logger) *Hub {
	return &Hub{
		feed:    feed,
		logger:  logger,
		clients: make(map[*Client]struct{}),
	}
}

// Attach регистрирует подписчика. Первый подписчик (или первый после ошибки
// подписки) запускает единственную подписку на ленту вставок. Добавленный
// клиент видит уже следующее уведомление. Подписка живёт дольше любого
// запроса, поэтому не привязана к контексту запроса
func (h *Hub) Attach(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}

	if h.sub == nil {
		sub, err := h.feed.Subscribe(context.Background())
		if err != nil {
			delete(h.clients, c)
			h.logger.WithError(err).Error("Failed to start insert subscription")
			return err
		}
		h.sub = sub
		go h.pump(sub)
		h.logger.Info("Insert subscription started")
	}

	metrics.StreamClients.Set(float64(len(h.clients)))
	return nil
}

// Detach синхронно убирает подписчика из рассылки: после возврата клиент
// не получит ни одного события. Последний подписчик останавливает подписку
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	var sub InsertSubscription
	if len(h.clients) == 0 && h.sub != nil {
		sub = h.sub
		h.sub = nil
	}
	metrics.StreamClients.Set(float64(len(h.clients)))
	h.mu.Unlock()

	if sub != nil {
		if err := sub.Close(); err != nil {
			h.logger.WithError(err).Warn("Failed to close insert subscription")
		} else {
			h.logger.Info("Insert subscription stopped")
		}
	}
}

// pump читает уведомления из подписки и раздаёт проекции подписчикам.
// Закрытие канала означает остановку или ошибку подписки: ссылка
// обнуляется, автоперезапуска нет - его вызовет следующий Attach
func (h *Hub) pump(sub InsertSubscription) {
	for incident := range sub.Incidents() {
		ev := NewEvent(incident)

		h.mu.Lock()
		for c := range h.clients {
			if c.TrySend(ev) {
				metrics.StreamEventsDelivered.Inc()
			} else {
				metrics.StreamEventsDropped.Inc()
				h.logger.WithField("incident_id", ev.IncidentID).
					Warn("Dropped stream event for slow subscriber")
			}
		}
		h.mu.Unlock()
	}

	h.mu.Lock()
	torn := h.sub == sub
	if torn {
		h.sub = nil
	}
	h.mu.Unlock()

	if torn {
		_ = sub.Close()
		h.logger.Warn("Insert subscription ended, waiting for next attach to restart")
	}
}

// ClientCount возвращает число подключённых подписчиков
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Active сообщает, есть ли сейчас живая подписка на ленту вставок
func (h *Hub) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sub != nil
}

// Shutdown отключает всех подписчиков и останавливает подписку.
// Вызывается при остановке сервиса
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.clients = make(map[*Client]struct{})
	sub := h.sub
	h.sub = nil
	metrics.StreamClients.Set(0)
	h.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
}
