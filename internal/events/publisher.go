package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/busdepo/marketplace-api/internal/config"
)

// Listing lifecycle event types.
const (
	ListingCreated = "listing.created"
	ListingUpdated = "listing.updated"
	ListingDeleted = "listing.deleted"
)

// ListingEvent is published to downstream consumers (search indexers,
// notification services) whenever a listing changes.
type ListingEvent struct {
	Event     string    `json:"event"`
	Resource  string    `json:"resource"` // "vehicle" or "spare"
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes listing lifecycle events over MQTT. A nil client
// means events are disabled; Publish then becomes a no-op. Event
// publication is best-effort: a broker failure is logged, never
// surfaced to the API caller.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// NewPublisher connects to the configured broker. When no broker URL is
// set it returns a disabled publisher.
func NewPublisher(cfg config.MQTT) (*Publisher, error) {
	if cfg.BrokerURL == "" {
		return &Publisher{}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}

	return &Publisher{client: client, topicPrefix: cfg.TopicPrefix}, nil
}

// Enabled reports whether a broker connection exists.
func (p *Publisher) Enabled() bool {
	return p != nil && p.client != nil
}

// Publish sends a listing lifecycle event. Failures are logged only.
func (p *Publisher) Publish(event, resource, listingID, userID string) {
	if !p.Enabled() {
		return
	}

	payload, err := json.Marshal(ListingEvent{
		Event:     event,
		Resource:  resource,
		ListingID: listingID,
		UserID:    userID,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.WithError(err).Error("failed to encode listing event")
		return
	}

	topic := fmt.Sprintf("%s/%s/%s", p.topicPrefix, resource, event)
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", topic).Error("failed to publish listing event")
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.Enabled() {
		p.client.Disconnect(250)
	}
}
