package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient records publish/subscribe calls; other mqtt.Client methods are not used.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	pubErr       error
	published    []published
	subscribed   map[string]byte
	unsubscribed []string
	callback     mqtt.MessageHandler
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return &fakeToken{err: c.pubErr}
}

func (c *fakeClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribed == nil {
		c.subscribed = map[string]byte{}
	}
	c.subscribed[topic] = qos
	c.callback = cb
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribed = append(c.unsubscribed, topics...)
	return &fakeToken{}
}

type fakeMessage struct {
	mqtt.Message
	payload []byte
}

func (m fakeMessage) Payload() []byte { return m.payload }

func TestQoSByTopic(t *testing.T) {
	cases := map[string]byte{
		"aquastep/control":       1,
		"aquastep/control/dev-1": 1,
		"aquastep/readings":      0,
		"controller":             0,
	}
	for topic, want := range cases {
		if got := qosFor(topic); got != want {
			t.Fatalf("%s: qos=%d, want %d", topic, got, want)
		}
	}
}

func TestPublisherPayloadTypes(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "aquastep/readings")

	if err := p.PublishMessage([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if err := p.PublishMessage("text"); err != nil {
		t.Fatalf("string: %v", err)
	}
	if err := p.PublishMessage(42); err == nil {
		t.Fatalf("int payload accepted")
	}
	if len(client.published) != 2 || string(client.published[1].payload) != "text" || client.published[0].qos != 0 {
		t.Fatalf("unexpected publishes %+v", client.published)
	}
}

func TestPublisherWrapsTokenError(t *testing.T) {
	brokerErr := errors.New("not connected")
	p := NewPublisher(&fakeClient{pubErr: brokerErr}, "aquastep/readings")
	if err := p.PublishMessage("x"); !errors.Is(err, brokerErr) {
		t.Fatalf("err=%v", err)
	}
}

func TestConsumerSubscribesAndUnsubscribes(t *testing.T) {
	client := &fakeClient{}
	got := make(chan string, 1)
	c := NewConsumer(client, "aquastep/control", func(topic string, m mqtt.Message) error {
		got <- topic + ":" + string(m.Payload())
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.ConsumeMessage(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		client.mu.Lock()
		cb := client.callback
		client.mu.Unlock()
		if cb != nil {
			cb(client, fakeMessage{payload: []byte("hi")})
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("consumer never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if msg := <-got; msg != "aquastep/control:hi" {
		t.Fatalf("handler got %q", msg)
	}
	if client.subscribed["aquastep/control"] != 1 {
		t.Fatalf("control topic subscribed with qos %d", client.subscribed["aquastep/control"])
	}

	cancel()
	<-done
	if len(client.unsubscribed) != 1 || client.unsubscribed[0] != "aquastep/control" {
		t.Fatalf("unsubscribed=%v", client.unsubscribed)
	}
}
