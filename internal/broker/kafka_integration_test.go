//go:build integration

package broker

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"imagemapper/internal/config"
	"imagemapper/internal/logger"
	"imagemapper/pkg/models"
)

func startKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("image-mapper-test"))
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	return brokers
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func TestKafka_PublishAndConsume(t *testing.T) {
	brokers := startKafka(t)
	topic := "CmsPublicationEvents"
	createTopic(t, brokers[0], topic)

	cfg := config.KafkaConfig{
		Brokers: brokers,
		GroupID: "image-mapper-it",
		Retry:   config.RetryConfig{MaxAttempts: 1},
	}
	log := logger.NopLogger()

	producer := NewKafkaProducer(cfg, log)
	defer producer.Close()

	msg := models.Message{
		ID:             "d6ed1e5b-3a1b-4f6e-9c57-7d0d3a6c1a11",
		Type:           models.MessageTypeContentPublished,
		OriginSystemID: "http://cmdb.ft.com/systems/methode-web-pub",
		ContentType:    models.ContentTypeJSON,
		Key:            "bb5a1f1e-4b5a-11e7-b4d5-5a17b4f1c0c9",
		Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
		Headers:        map[string]string{"X-Request-Id": "tid_integration"},
		Body:           `{"uuid":"bb5a1f1e-4b5a-11e7-b4d5-5a17b4f1c0c9"}`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, producer.Publish(ctx, topic, msg))

	received := make(chan models.Message, 1)
	consumer := NewKafkaConsumer(cfg, log)
	defer consumer.Close()

	require.NoError(t, consumer.Consume(ctx, topic, func(ctx context.Context, m models.Message) error {
		received <- m
		return nil
	}))

	select {
	case got := <-received:
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, msg.Key, got.Key)
		assert.Equal(t, "tid_integration", got.TransactionID())
		assert.JSONEq(t, msg.Body, got.Body)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
