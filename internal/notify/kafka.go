package notify

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher mirrors bus events onto Kafka topics so external
// consumers (reporting, signage) can subscribe without holding a
// websocket open. If brokers is empty or disabled, publishes are no-ops.
type KafkaPublisher struct {
	writer  *kafka.Writer
	enabled bool
}

func NewKafkaPublisher(brokers string, enabled bool) *KafkaPublisher {
	if !enabled || brokers == "" {
		return &KafkaPublisher{enabled: false}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.Printf("kafka publisher initialized, brokers=%s", brokers)
	return &KafkaPublisher{writer: w, enabled: true}
}

func (p *KafkaPublisher) Publish(channel, event string, payload any) bool {
	if !p.enabled {
		return true
	}

	data, err := json.Marshal(Envelope{
		Channel:   channel,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("ERROR [notify.Kafka] failed to marshal %s/%s: %v", channel, event, err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: "center." + channel,
		Key:   []byte(event),
		Value: data,
	})
	if err != nil {
		log.Printf("ERROR [notify.Kafka] failed to publish %s/%s: %v", channel, event, err)
		return false
	}
	return true
}

func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
