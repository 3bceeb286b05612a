package rabbitmq

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MessageHandler processes one message received on topic.
type MessageHandler func(topic string, message mqtt.Message) error

// IConsumer subscribes a handler and blocks until the context is cancelled.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler MessageHandler)
}

// Consumer holds the client and topic for subscribing
type Consumer struct {
	client  mqtt.Client
	handler MessageHandler
	topic   string
}

// NewConsumer creates a new Consumer instance using the shared MQTT client and topic
func NewConsumer(client mqtt.Client, topic string, handler MessageHandler) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

func (c *Consumer) SetHandler(handler MessageHandler) {
	c.handler = handler
}

// control commands must not be lost; telemetry is fire-and-forget
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasSuffix(t, "/control") || strings.Contains(t, "/control/") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes to the topic and processes messages using the handler.
// It blocks until the context is cancelled.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(
		c.topic,
		qosFor(c.topic),
		func(_ mqtt.Client, message mqtt.Message) {
			if c.handler == nil {
				log.Printf("mqtt: no handler set for topic %s", c.topic)
				return
			}
			if err := c.handler(c.topic, message); err != nil {
				log.Printf("mqtt: error handling message on %s: %v", c.topic, err)
			}
		},
	)

	if token.Wait() && token.Error() != nil {
		log.Printf("mqtt: error subscribing to topic %s: %v", c.topic, token.Error())
		return
	}

	log.Printf("mqtt: subscribed to topic %s", c.topic)

	<-ctx.Done()

	// Unsubscribe when exiting to clean up
	unsubToken := c.client.Unsubscribe(c.topic)
	unsubToken.Wait()
}
