// Package producers streams report records to Kafka.
package producers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/seatyield/internal/models"
	"github.com/rs/zerolog/log"
)

var ErrProducerClosed = errors.New("sarama producer is closed")

type SaramaProducer struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

// NewSaramaConfig maps KafkaConfig onto a sync-producer configuration.
func NewSaramaConfig(cfg models.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if cfg.RetryMax > 0 {
		saramaConfig.Producer.Retry.Max = cfg.RetryMax
	}
	if cfg.RetryBackoff > 0 {
		saramaConfig.Producer.Retry.Backoff = cfg.RetryBackoff
	}
	if cfg.DialTimeout > 0 {
		saramaConfig.Net.DialTimeout = cfg.DialTimeout
	}
	if cfg.WriteTimeout > 0 {
		saramaConfig.Net.WriteTimeout = cfg.WriteTimeout
		saramaConfig.Producer.Timeout = cfg.WriteTimeout
	}
	return saramaConfig
}

// Brokers splits a comma separated broker list, dropping blanks.
func Brokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// TopicName prefixes topic with prefix when one is set.
func TopicName(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}

func NewSaramaProducer(cfg models.KafkaConfig) (*SaramaProducer, error) {
	brokerList := Brokers(cfg.BrokerList)
	if len(brokerList) == 0 {
		return nil, fmt.Errorf("kafka broker list is empty")
	}

	producer, err := sarama.NewSyncProducer(brokerList, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Info().Strs("brokers", brokerList).Msg("sarama producer created")
	return NewSaramaProducerFrom(producer, cfg.TopicPrefix), nil
}

// NewSaramaProducerFrom wraps an existing producer, e.g. a sarama mock.
func NewSaramaProducerFrom(producer sarama.SyncProducer, topicPrefix string) *SaramaProducer {
	return &SaramaProducer{producer: producer, topicPrefix: topicPrefix}
}

// WriteMessage keys each record by its run id so one run lands on one partition.
func (s *SaramaProducer) WriteMessage(topic string, msg []byte) error {
	if s.producer == nil {
		return ErrProducerClosed
	}

	pm := &sarama.ProducerMessage{
		Topic: TopicName(s.topicPrefix, topic),
		Value: sarama.ByteEncoder(msg),
	}
	if key := runKey(msg); key != "" {
		pm.Key = sarama.StringEncoder(key)
	}

	if _, _, err := s.producer.SendMessage(pm); err != nil {
		log.Error().Err(err).Str("topic", pm.Topic).Msg("failed to send message")
		return err
	}
	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer == nil {
		return nil
	}
	err := s.producer.Close()
	s.producer = nil
	return err
}

func runKey(msg []byte) string {
	var head struct {
		RunID string `json:"runId"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return ""
	}
	return head.RunID
}
