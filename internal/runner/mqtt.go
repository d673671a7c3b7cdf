package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tarmason/fleetgate/internal/infrastructure/logging"
	"github.com/tarmason/fleetgate/internal/infrastructure/mqtt"
	"github.com/tarmason/fleetgate/internal/lowdata"
)

// defaultReplyTimeout bounds how long Execute waits for an agent reply
// when no window is configured.
const defaultReplyTimeout = 30 * time.Second

// Bus is the slice of the MQTT client the runner needs. Declared here so
// tests can substitute a fake without a broker.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// request is the wire format published to fleetgate/cmd/req/{id}.
type request struct {
	ID  string        `json:"id"`
	Cmd lowdata.Chunk `json:"cmd"`
}

// reply is the wire format agents publish to fleetgate/cmd/resp/{id}.
type reply struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Return any    `json:"return"`
	Error  string `json:"error,omitempty"`
}

// MQTTRunner executes chunks over MQTT request/reply.
//
// One subscription on fleetgate/cmd/resp/+ serves all in-flight
// commands; handleReply routes each reply to its waiting Execute call by
// payload ID. Replies that arrive after their waiter gave up are
// dropped.
type MQTTRunner struct {
	bus     Bus
	qos     byte
	timeout time.Duration
	logger  *logging.Logger

	pending map[string]chan reply
	mu      sync.Mutex
}

// NewMQTTRunner creates a runner and installs its reply subscription.
func NewMQTTRunner(bus Bus, qos byte, replyTimeout time.Duration, logger *logging.Logger) (*MQTTRunner, error) {
	if replyTimeout <= 0 {
		replyTimeout = defaultReplyTimeout
	}

	r := &MQTTRunner{
		bus:     bus,
		qos:     qos,
		timeout: replyTimeout,
		logger:  logger.With("component", "runner"),
		pending: make(map[string]chan reply),
	}

	if err := bus.Subscribe(mqtt.Topics{}.AllCommandReplies(), qos, r.handleReply); err != nil {
		return nil, fmt.Errorf("subscribing to command replies: %w", err)
	}

	return r, nil
}

// Execute publishes the chunk and waits for the agent's reply.
func (r *MQTTRunner) Execute(ctx context.Context, chunk lowdata.Chunk) (any, error) {
	id := "req-" + uuid.NewString()[:8]

	ch := make(chan reply, 1)
	r.mu.Lock()
	r.pending[id] = ch
	r.mu.Unlock()
	defer r.forget(id)

	payload, err := json.Marshal(request{ID: id, Cmd: chunk})
	if err != nil {
		return nil, fmt.Errorf("encoding command request: %w", err)
	}

	if err := r.bus.Publish(mqtt.Topics{}.CommandRequest(id), payload, r.qos, false); err != nil {
		return nil, fmt.Errorf("publishing command request: %w", err)
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case rep := <-ch:
		if !rep.OK {
			if rep.Error != "" {
				return nil, fmt.Errorf("%w: %s", ErrCommandFailed, rep.Error)
			}
			return nil, ErrCommandFailed
		}
		return rep.Return, nil

	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrReplyTimeout, r.timeout)

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close removes the reply subscription. In-flight Execute calls run out
// on their own timers.
func (r *MQTTRunner) Close() error {
	if err := r.bus.Unsubscribe(mqtt.Topics{}.AllCommandReplies()); err != nil {
		return fmt.Errorf("unsubscribing from command replies: %w", err)
	}
	return nil
}

// handleReply routes an agent reply to its waiting Execute call.
func (r *MQTTRunner) handleReply(topic string, payload []byte) error {
	var rep reply
	if err := json.Unmarshal(payload, &rep); err != nil {
		return fmt.Errorf("decoding command reply on %s: %w", topic, err)
	}
	if rep.ID == "" {
		return fmt.Errorf("command reply on %s carries no id", topic)
	}

	r.mu.Lock()
	ch, ok := r.pending[rep.ID]
	r.mu.Unlock()
	if !ok {
		// Late or duplicate reply; the waiter is gone.
		r.logger.Debug("dropping unmatched command reply", "request_id", rep.ID)
		return nil
	}

	select {
	case ch <- rep:
	default:
	}
	return nil
}

// forget removes a pending entry once its Execute call returns.
func (r *MQTTRunner) forget(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}
