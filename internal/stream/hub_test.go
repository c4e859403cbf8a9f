package stream

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/incident_gateway/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeSubscription - ручная подписка для тестов: события проталкиваются
// напрямую в канал, Close имитирует остановку
type fakeSubscription struct {
	out       chan *models.Incident
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		out:    make(chan *models.Incident),
		closed: make(chan struct{}),
	}
}

func (s *fakeSubscription) Incidents() <-chan *models.Incident { return s.out }

func (s *fakeSubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.out)
		close(s.closed)
	})
	return nil
}

func (s *fakeSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// emit доставляет событие и ждет, пока хаб его разошлет
func (s *fakeSubscription) emit(t *testing.T, incident *models.Incident) {
	t.Helper()
	select {
	case s.out <- incident:
	case <-time.After(time.Second):
		t.Fatal("hub did not consume insert notification")
	}
}

// fakeFeed считает запуски подписки и отдает заранее заготовленные подписки
type fakeFeed struct {
	mu         sync.Mutex
	subscribes int
	current    *fakeSubscription
	err        error
}

func (f *fakeFeed) Subscribe(_ context.Context) (InsertSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.subscribes++
	f.current = newFakeSubscription()
	return f.current, nil
}

func (f *fakeFeed) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

func (f *fakeFeed) subscription() *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func newTestHub() (*Hub, *fakeFeed) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	feed := &fakeFeed{}
	return NewHub(feed, logger), feed
}

func TestHub_LazySubscriptionStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, feed := newTestHub()

	// Подготовка: три подписчика подключаются при пустом хабе
	clients := []*Client{NewClient(4), NewClient(4), NewClient(4)}
	for _, c := range clients {
		require.NoError(t, hub.Attach(c))
	}

	// Подписка на ленту вставок стартовала ровно один раз
	assert.Equal(t, 1, feed.subscribeCount())
	assert.Equal(t, 3, hub.ClientCount())
	assert.True(t, hub.Active())

	// Отключение не последних подписчиков не трогает подписку
	hub.Detach(clients[0])
	hub.Detach(clients[1])
	assert.True(t, hub.Active())
	assert.False(t, feed.subscription().isClosed())

	// Последний подписчик останавливает подписку
	hub.Detach(clients[2])
	assert.False(t, hub.Active())
	assert.True(t, feed.subscription().isClosed())
	assert.Equal(t, 1, feed.subscribeCount())
}

func TestHub_FanOutToAllWritableClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, feed := newTestHub()

	first := NewClient(4)
	second := NewClient(4)
	require.NoError(t, hub.Attach(first))
	require.NoError(t, hub.Attach(second))
	defer hub.Shutdown()

	receivedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	incident := &models.Incident{
		IncidentID:    "INC-0AF31B2C",
		Type:          "fire",
		Severity:      7,
		BaseReceipt:   models.BaseReceipt{BaseNodeID: "base-1", ReceivedAt: receivedAt},
		TraversalPath: []models.Hop{{HopIndex: 0, NodeID: "edge-1"}, {HopIndex: 1, NodeID: "relay-1"}},
	}
	feed.subscription().emit(t, incident)

	// Оба подписчика получают одинаковую проекцию
	for _, c := range []*Client{first, second} {
		select {
		case ev := <-c.Events():
			assert.Equal(t, "INC-0AF31B2C", ev.IncidentID)
			assert.Equal(t, "fire", ev.Type)
			assert.Equal(t, 7, ev.Severity)
			require.NotNil(t, ev.BaseReceiptReceivedAt)
			assert.Equal(t, receivedAt, *ev.BaseReceiptReceivedAt)
			assert.Equal(t, 2, ev.TraversalPathLength)
		case <-time.After(time.Second):
			t.Fatal("client did not receive fan-out event")
		}
	}

	// После отключения первого событие доставляется только второму
	hub.Detach(first)
	feed.subscription().emit(t, &models.Incident{IncidentID: "INC-22222222"})

	select {
	case ev := <-second.Events():
		assert.Equal(t, "INC-22222222", ev.IncidentID)
		assert.Equal(t, 0, ev.TraversalPathLength)
		assert.Nil(t, ev.BaseReceiptReceivedAt)
	case <-time.After(time.Second):
		t.Fatal("remaining client did not receive event")
	}

	select {
	case ev := <-first.Events():
		t.Fatalf("detached client received event %s", ev.IncidentID)
	default:
	}
}

func TestHub_NoSubscriptionWithoutClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, feed := newTestHub()

	// Вставки при пустом хабе никого не будят: подписки вообще нет
	assert.Equal(t, 0, feed.subscribeCount())
	assert.False(t, hub.Active())
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_SlowClientDoesNotBlockOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, feed := newTestHub()

	slow := NewClient(1)
	fast := NewClient(4)
	require.NoError(t, hub.Attach(slow))
	require.NoError(t, hub.Attach(fast))
	defer hub.Shutdown()

	// Первое событие заполняет буфер медленного подписчика
	feed.subscription().emit(t, &models.Incident{IncidentID: "INC-00000001"})
	// Второе у медленного теряется, быстрый получает оба
	feed.subscription().emit(t, &models.Incident{IncidentID: "INC-00000002"})

	for _, want := range []string{"INC-00000001", "INC-00000002"} {
		select {
		case ev := <-fast.Events():
			assert.Equal(t, want, ev.IncidentID)
		case <-time.After(time.Second):
			t.Fatalf("fast client did not receive %s", want)
		}
	}

	ev := <-slow.Events()
	assert.Equal(t, "INC-00000001", ev.IncidentID)
	select {
	case ev := <-slow.Events():
		t.Fatalf("slow client unexpectedly received %s", ev.IncidentID)
	default:
	}
	assert.False(t, slow.Writable())
}

func TestHub_FeedErrorTearsDownSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, feed := newTestHub()

	client := NewClient(4)
	require.NoError(t, hub.Attach(client))

	// Ошибка ленты: канал подписки закрывается сам
	sub := feed.subscription()
	sub.Close()

	// Хаб обнуляет подписку, подписчик остается подключенным, но молчит
	require.Eventually(t, func() bool { return !hub.Active() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	// Автоперезапуска нет: его вызывает только следующий Attach
	assert.Equal(t, 1, feed.subscribeCount())

	second := NewClient(4)
	require.NoError(t, hub.Attach(second))
	assert.Equal(t, 2, feed.subscribeCount())
	assert.True(t, hub.Active())

	hub.Shutdown()
	assert.Equal(t, 0, hub.ClientCount())
	assert.False(t, hub.Active())
}

func TestHub_AttachFailsWhenFeedUnavailable(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, feed := newTestHub()
	feed.err = errors.New("redis down")

	err := hub.Attach(NewClient(4))
	require.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
	assert.False(t, hub.Active())
}
