package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/coolcare/coolcare/internal/db"
)

// DefaultTopic is where field technicians' devices report completed
// service visits.
const DefaultTopic = "coolcare/service/completed"

// Event is one completed service visit reported from the field.
type Event struct {
	DeviceID    string    `json:"device_id"`
	ServiceType string    `json:"service_type"` // "cleaning" or "repair"
	PerformedAt time.Time `json:"performed_at"`
}

// parseEvent decodes and validates a service-completion payload.
func parseEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("invalid service event: %w", err)
	}
	if event.DeviceID == "" {
		return Event{}, fmt.Errorf("service event missing device_id")
	}
	if event.ServiceType != "cleaning" && event.ServiceType != "repair" {
		return Event{}, fmt.Errorf("unknown service type %q", event.ServiceType)
	}
	return event, nil
}

// Subscriber consumes service-completion events from the MQTT broker
// and applies them to the device records.
type Subscriber struct {
	client  mqtt.Client
	devices db.DeviceCollection
	topic   string
}

// NewSubscriber connects to the broker. The returned subscriber is not
// yet listening; call Start.
func NewSubscriber(broker, clientID string, devices db.DeviceCollection) (*Subscriber, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Subscriber{
		client:  client,
		devices: devices,
		topic:   DefaultTopic,
	}, nil
}

// Start subscribes to the service-completion topic. Malformed events
// are logged and dropped; the stream keeps flowing.
func (s *Subscriber) Start() error {
	if token := s.client.Subscribe(s.topic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.topic, token.Error())
	}
	log.WithField("topic", s.topic).Info("Listening for service completions")
	return nil
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	event, err := parseEvent(msg.Payload())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropping malformed service event")
		return
	}

	if err := s.apply(context.Background(), event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"device_id":    event.DeviceID,
			"service_type": event.ServiceType,
		}).Error("Failed to apply service event")
		return
	}

	log.WithFields(log.Fields{
		"device_id":    event.DeviceID,
		"service_type": event.ServiceType,
	}).Info("Service visit recorded")
}

func (s *Subscriber) apply(ctx context.Context, event Event) error {
	performedAt := event.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now().UTC()
	}

	switch event.ServiceType {
	case "cleaning":
		return s.devices.MarkCleaned(ctx, event.DeviceID, performedAt)
	case "repair":
		return s.devices.MarkRepaired(ctx, event.DeviceID, performedAt)
	}
	return fmt.Errorf("unknown service type %q", event.ServiceType)
}

// Close drops the subscription and disconnects from the broker.
func (s *Subscriber) Close() {
	if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Warn("Failed to unsubscribe")
	}
	s.client.Disconnect(250)
}
