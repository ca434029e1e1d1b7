package mqtt

import "github.com/rs/zerolog/log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox queues messages published while the broker is unreachable.
// A retained message replaces an older queued retained message on the
// same topic, as the broker would only keep the last one. When the outbox
// is full the oldest message is dropped.
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type outbox struct {
	msgs    []bufferedMsg
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	return &outbox{msgs: make([]bufferedMsg, 0, limit), limit: limit}
}

func (o *outbox) add(m bufferedMsg) {
	if m.retained {
		for i, q := range o.msgs {
			if q.retained && q.topic == m.topic {
				o.msgs = append(o.msgs[:i], o.msgs[i+1:]...)
				break
			}
		}
	}
	if len(o.msgs) == o.limit {
		if o.dropped == 0 {
			log.Warn().Str("component", "mqtt").Int("limit", o.limit).Msg("outbox full, dropping oldest")
		}
		o.dropped++
		o.msgs = append(o.msgs[:0], o.msgs[1:]...)
	}
	o.msgs = append(o.msgs, m)
}

// take empties the outbox. It returns the queued messages oldest first
// and the number of messages dropped since the last take.
func (o *outbox) take() ([]bufferedMsg, int) {
	msgs, dropped := o.msgs, o.dropped
	o.msgs = make([]bufferedMsg, 0, o.limit)
	o.dropped = 0
	if len(msgs) == 0 {
		return nil, dropped
	}
	return msgs, dropped
}

func (o *outbox) len() int {
	return len(o.msgs)
}
