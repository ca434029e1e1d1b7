package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	outboxLimit     = 256
	commandCapacity = 8
	publishTimeout  = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker. Messages published
// while the connection is down are kept in an outbox and replayed
// once it comes back. It also subscribes to TopicCommand.
type RealPublisher struct {
	client paho.Client

	mu        sync.Mutex
	outbox    *outbox
	connected bool
	connects  int

	commands chan Command
}

// NewRealPublisher starts connecting to broker in the background and
// returns immediately. Until the first connection succeeds, messages are
// buffered.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{
		outbox:   newOutbox(outboxLimit),
		commands: make(chan Command, commandCapacity),
	}

	will, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("wordclock").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	p.connected = true
	p.connects++
	reconnect := p.connects > 1
	pending, dropped := p.outbox.take()
	p.mu.Unlock()

	log.Info().Str("component", "mqtt").Int("queued", len(pending)).Int("dropped", dropped).Msg("connected")

	if token := c.Subscribe(TopicCommand, 1, p.onCommand); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", TopicCommand).Msg("subscribe failed")
	}

	for _, m := range pending {
		if err := p.send(m); err != nil {
			log.Warn().Err(err).Str("topic", m.topic).Msg("replay failed")
		}
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		if err := p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1}); err != nil {
			log.Warn().Err(err).Msg("publish reconnected event")
		}
	}
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
	log.Warn().Err(err).Str("component", "mqtt").Msg("connection lost")
}

func (p *RealPublisher) onCommand(_ paho.Client, msg paho.Message) {
	cmd, err := ParseCommand(msg.Payload())
	if err != nil {
		log.Warn().Err(err).Str("payload", string(msg.Payload())).Msg("ignoring command")
		return
	}
	select {
	case p.commands <- cmd:
	default:
		log.Warn().Msg("command queue full, dropping command")
	}
}

// Commands returns the channel of remote commands.
func (p *RealPublisher) Commands() <-chan Command {
	return p.commands
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Publish sends a signal event to the MQTT broker.
func (p *RealPublisher) Publish(event SignalEvent) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.publish(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events
	return p.publish(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) publish(m bufferedMsg) error {
	p.mu.Lock()
	if !p.connected {
		p.outbox.add(m)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.send(m)
}

func (p *RealPublisher) send(m bufferedMsg) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
