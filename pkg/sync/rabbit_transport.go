package sync

import (
	"encoding/json"
	"log"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/messaging"
	"github.com/matst80/slask-catalog/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitConfig struct {
	Url    string
	VHost  string
	Prefix string
}

func (c *RabbitConfig) prefix() string {
	if c.Prefix == "" {
		return "catalog"
	}
	return c.Prefix
}

func (c *RabbitConfig) dial() (*amqp.Connection, error) {
	if c.VHost != "" {
		return amqp.DialConfig(c.Url, amqp.Config{Vhost: c.VHost})
	}
	return amqp.Dial(c.Url)
}

// RabbitTransportMaster publishes catalog changes so reader nodes can follow.
type RabbitTransportMaster struct {
	RabbitConfig
	connection *amqp.Connection
}

func (t *RabbitTransportMaster) Connect() error {
	conn, err := t.dial()
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, t.prefix(), messaging.ProductsUpsertedTopic); err != nil {
		return err
	}
	return messaging.DefineTopic(ch, t.prefix(), messaging.ProductDeletedTopic)
}

func (t *RabbitTransportMaster) Close() error {
	return t.connection.Close()
}

func (t *RabbitTransportMaster) SendProductsUpserted(items []*types.Product) error {
	return messaging.SendChange(t.connection, t.prefix(), messaging.ProductsUpsertedTopic, items)
}

func (t *RabbitTransportMaster) SendProductDeleted(sku string) error {
	return messaging.SendChange(t.connection, t.prefix(), messaging.ProductDeletedTopic, sku)
}

// RabbitTransportClient applies published changes to a local catalog.
type RabbitTransportClient struct {
	RabbitConfig
	ClientName string
	connection *amqp.Connection
}

func (t *RabbitTransportClient) Connect(c *catalog.Catalog) error {
	conn, err := t.dial()
	if err != nil {
		return err
	}
	t.connection = conn

	upsertCh, err := conn.Channel()
	if err != nil {
		return err
	}
	err = messaging.ListenToTopic(upsertCh, t.prefix(), messaging.ProductsUpsertedTopic, func(d amqp.Delivery) error {
		items := []*types.Product{}
		if err := json.Unmarshal(d.Body, &items); err != nil {
			log.Printf("failed to decode product upsert: %v", err)
			return nil
		}
		c.Upsert(items...)
		return nil
	})
	if err != nil {
		return err
	}

	deleteCh, err := conn.Channel()
	if err != nil {
		return err
	}
	return messaging.ListenToTopic(deleteCh, t.prefix(), messaging.ProductDeletedTopic, func(d amqp.Delivery) error {
		var sku string
		if err := json.Unmarshal(d.Body, &sku); err != nil {
			log.Printf("failed to decode product delete: %v", err)
			return nil
		}
		c.Delete(sku)
		return nil
	})
}

func (t *RabbitTransportClient) Close() error {
	return t.connection.Close()
}
