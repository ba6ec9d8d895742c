// Package events publishes and consumes processed-video notifications on Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidbrief/types"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TypeVideoProcessed is the event type for a successful /process call
const TypeVideoProcessed = "video.processed"

// VideoProcessed is the payload written to the topic
type VideoProcessed struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	SummaryMode string    `json:"summary_mode,omitempty"`
	Subtitles   int       `json:"subtitles"`
	HasAudio    bool      `json:"has_audio"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewVideoProcessed builds an event for result
func NewVideoProcessed(result *types.ProcessingResult, summaryMode string) VideoProcessed {
	return VideoProcessed{
		ID:          uuid.NewString(),
		Type:        TypeVideoProcessed,
		VideoID:     result.ID(),
		Title:       result.Metadata.Title,
		Author:      result.Metadata.Author,
		Thumbnail:   result.Metadata.Thumbnail,
		SummaryMode: summaryMode,
		Subtitles:   len(result.Subtitles),
		HasAudio:    result.AudioFilename != "",
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher sends processed-video events
type Publisher interface {
	Publish(ctx context.Context, ev VideoProcessed) error
	Close() error
}

// Noop discards events; used when no brokers are configured
type Noop struct{}

func (Noop) Publish(context.Context, VideoProcessed) error { return nil }
func (Noop) Close() error                                  { return nil }

// KafkaPublisher writes events keyed by video id
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// ProducerConfig returns the sarama configuration used by NewKafkaPublisher
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3
	cfg.ClientID = "vidbrief-gateway"
	return cfg
}

// NewKafkaPublisher connects a synchronous producer to brokers
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends ev and waits for the broker acknowledgement
func (p *KafkaPublisher) Publish(ctx context.Context, ev VideoProcessed) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.VideoID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}

	logrus.WithFields(logrus.Fields{
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
		"video_id":  ev.VideoID,
	}).Debug("Published event")
	return nil
}

// Close shuts down the producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Open returns a Kafka publisher when brokers are set, otherwise Noop
func Open(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	pub, err := NewKafkaPublisher(brokers, topic)
	if err != nil {
		logrus.WithError(err).WithField("brokers", brokers).Warn("Kafka unavailable, events disabled")
		return Noop{}
	}
	logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic}).Info("Kafka publisher ready")
	return pub
}

// RecentEntry is the recent-list record described by the event
func (ev VideoProcessed) RecentEntry() types.RecentEntry {
	return types.RecentEntry{ID: ev.VideoID, Title: ev.Title, Thumbnail: ev.Thumbnail}
}
