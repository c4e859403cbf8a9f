package stream

import "sync/atomic"

// Client - хэндл одного подписчика потока. Живёт от подключения до
// отключения и никогда не сохраняется
type Client struct {
	events   chan Event
	writable atomic.Bool
}

func NewClient(buffer int) *Client {
	if buffer < 1 {
		buffer = 1
	}
	c := &Client{
		events: make(chan Event, buffer),
	}
	c.writable.Store(true)
	return c
}

// TrySend пытается доставить событие без блокировки. Переполненный буфер
// означает медленного потребителя: событие теряется, клиент помечается
// как неписабельный до освобождения буфера
func (c *Client) TrySend(ev Event) bool {
	select {
	case c.events <- ev:
		c.writable.Store(true)
		return true
	default:
		c.writable.Store(false)
		return false
	}
}

// Events - канал доставки для цикла отправки транспорта
func (c *Client) Events() <-chan Event {
	return c.events
}

// Writable сообщает, принимал ли буфер последнее событие
func (c *Client) Writable() bool {
	return c.writable.Load()
}
