package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	coreledger "github.com/parksense/parksense/core/ledger"
	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/infra/logger"
)

// Config defines the connection parameters for the event mirror.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Mirror republishes confirmed slot updates to an MQTT topic per slot so
// dashboards can subscribe without polling the status API.
type Mirror struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// NewMirror connects to the broker.
func NewMirror(cfg Config) (*Mirror, error) {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "parking/events"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "parksense-mirror"
	}
	log := logger.New("mqtt-mirror")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Mirror{cli: cli, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

// Publish sends the event as JSON to <prefix>/<slotId>.
func (m *Mirror) Publish(ev model.ParkingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s", m.prefix, ev.SlotID)
	if token := m.cli.Publish(topic, m.qos, false, payload); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (m *Mirror) Close() {
	m.cli.Disconnect(250)
}

// MirroredClient decorates a ledger client: after a successful submission the
// event is also published to the mirror. Mirror failures are logged, never
// surfaced, so dashboard availability cannot affect ledger delivery.
type MirroredClient struct {
	inner  coreledger.Client
	mirror *Mirror
}

// NewMirroredClient wraps the inner client.
func NewMirroredClient(inner coreledger.Client, mirror *Mirror) *MirroredClient {
	return &MirroredClient{inner: inner, mirror: mirror}
}

// Submit delegates to the inner client and mirrors on success.
func (c *MirroredClient) Submit(ctx context.Context, ev model.ParkingEvent) error {
	if err := c.inner.Submit(ctx, ev); err != nil {
		return err
	}
	if err := c.mirror.Publish(ev); err != nil {
		c.mirror.log.Warnf("mirror publish for %s: %v", ev.SlotID, err)
	}
	return nil
}

var _ coreledger.Client = (*MirroredClient)(nil)
