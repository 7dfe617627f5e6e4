package tracking

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitTracking struct {
	prefix     string
	connection *amqp.Connection
}

func NewRabbitTracking(url, prefix string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		prefix: prefix,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, t.prefix, messaging.TrackingTopic)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.SendChange(t.connection, t.prefix, messaging.TrackingTopic, data)
}

type BaseEvent struct {
	SessionId int    `json:"session_id"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

type SearchEvent struct {
	*BaseEvent
	Query string `json:"query"`
}

type FilterEvent struct {
	*BaseEvent
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
}

type ClickEvent struct {
	*BaseEvent
	Sku string `json:"sku"`
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) error {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return t.send(SessionEvent{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId},
		UserAgent: r.UserAgent(),
		Ip:        ip,
		Language:  r.Header.Get("Accept-Language"),
	})
}

func (t *RabbitTracking) TrackSearch(sessionId int, query string) error {
	return t.send(SearchEvent{
		BaseEvent: &BaseEvent{Event: 1, SessionId: sessionId},
		Query:     query,
	})
}

func (t *RabbitTracking) TrackFilter(sessionId int, category string, subCategory string) error {
	return t.send(FilterEvent{
		BaseEvent:   &BaseEvent{Event: 2, SessionId: sessionId},
		Category:    category,
		SubCategory: subCategory,
	})
}

func (t *RabbitTracking) TrackClick(sessionId int, sku string) error {
	return t.send(ClickEvent{
		BaseEvent: &BaseEvent{Event: 3, SessionId: sessionId},
		Sku:       sku,
	})
}
