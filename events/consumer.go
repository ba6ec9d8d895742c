package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// Handler processes one decoded event. Returning an error ends the claim
// without marking the message, so the next session redelivers it.
type Handler func(ctx context.Context, ev VideoProcessed) error

// sessionRetryDelay spaces out sessions restarted after a handler failure
const sessionRetryDelay = 2 * time.Second

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler Handler
}

// Consumer feeds processed-video events from a consumer group into a Handler
type Consumer struct {
	group   sarama.ConsumerGroup
	handler Handler
	topic   string
	groupID string
	ready   chan struct{}
}

// ConsumerGroupConfig returns the sarama configuration used by NewConsumer
func ConsumerGroupConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true
	cfg.ClientID = "vidbrief-tui"
	return cfg
}

// NewConsumer joins the consumer group described by cfg
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	if cfg.Handler == nil {
		return nil, errors.New("consumer handler is required")
	}
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, ConsumerGroupConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}
	return NewConsumerWithGroup(group, cfg.Topic, cfg.GroupID, cfg.Handler), nil
}

// NewConsumerWithGroup wraps an existing consumer group
func NewConsumerWithGroup(group sarama.ConsumerGroup, topic, groupID string, h Handler) *Consumer {
	return &Consumer{
		group:   group,
		handler: h,
		topic:   topic,
		groupID: groupID,
		ready:   make(chan struct{}),
	}
}

// Start consumes in the background until ctx is cancelled. It returns once
// the first session is set up or ctx ends.
func (c *Consumer) Start(ctx context.Context) error {
	gh := &groupHandler{handler: c.handler, ready: c.ready}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, gh); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				logrus.WithError(err).Warn("Kafka consumer session ended")
			}
			if ctx.Err() != nil {
				return
			}
			if gh.failed() {
				select {
				case <-time.After(sessionRetryDelay):
				case <-ctx.Done():
					return
				}
			}
			gh.reset()
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			logrus.WithError(err).Warn("Kafka consumer error")
		}
	}()

	select {
	case <-c.ready:
		logrus.WithFields(logrus.Fields{"group": c.groupID, "topic": c.topic}).Info("Kafka consumer started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close leaves the consumer group
func (c *Consumer) Close() error {
	return c.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	handler Handler
	ready   chan struct{}

	mu      sync.Mutex
	failure bool
}

func (h *groupHandler) failed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failure
}

// reset prepares the handler for the next session
func (h *groupHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failure = false
	h.ready = make(chan struct{})
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok || msg == nil {
				return nil
			}
			if err := h.handleMessage(session.Context(), msg); err != nil {
				// returning ends the session before a later offset is marked
				h.mu.Lock()
				h.failure = true
				h.mu.Unlock()
				return err
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handleMessage returns the handler's error. Undecodable and foreign events
// return nil so they are marked and skipped.
func (h *groupHandler) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	log := logrus.WithFields(logrus.Fields{
		"partition": msg.Partition,
		"offset":    msg.Offset,
		"key":       string(msg.Key),
	})

	var ev VideoProcessed
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.WithError(err).Warn("Skipping undecodable event")
		return nil
	}
	if ev.Type != TypeVideoProcessed || ev.VideoID == "" {
		log.WithField("type", ev.Type).Debug("Skipping foreign event")
		return nil
	}

	if err := h.handler(ctx, ev); err != nil {
		log.WithError(err).Warn("Failed to handle event")
		return fmt.Errorf("handle event %s: %w", ev.ID, err)
	}
	return nil
}
