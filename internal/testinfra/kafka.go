//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type KafkaContainer struct {
	Container     *kafka.KafkaContainer
	Brokers       []string
	RequestQueue  string
	CompleteQueue string
	RequestGroup  string
	CompleteGroup string
}

func NewKafka(ctx context.Context) (*KafkaContainer, error) {
	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka container: %w", err)
	}

	brokers, err := container.Brokers(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get brokers: %w", err)
	}

	// Unique topics and groups per test run
	suffix := uuid.New().String()[:8]
	requestQueue := fmt.Sprintf("test-render-requests-%s", suffix)
	completeQueue := fmt.Sprintf("test-render-complete-%s", suffix)

	// Create topics explicitly (so consumers can subscribe before first message)
	if err := createTopic(ctx, container, requestQueue, 1); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create request topic: %w", err)
	}
	if err := createTopic(ctx, container, completeQueue, 1); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create complete topic: %w", err)
	}

	return &KafkaContainer{
		Container:     container,
		Brokers:       brokers,
		RequestQueue:  requestQueue,
		CompleteQueue: completeQueue,
		RequestGroup:  fmt.Sprintf("test-group-renderer-%s", suffix),
		CompleteGroup: fmt.Sprintf("test-group-api-%s", suffix),
	}, nil
}

func createTopic(ctx context.Context, c *kafka.KafkaContainer, topic string, partitions int) error {
	// Small retry because Kafka may be "up" but not yet ready for admin ops.
	const attempts = 20
	for i := 0; i < attempts; i++ {
		exitCode, reader, err := c.Exec(ctx, []string{
			"kafka-topics",
			"--bootstrap-server", "localhost:9092",
			"--create",
			"--if-not-exists",
			"--topic", topic,
			"--partitions", fmt.Sprintf("%d", partitions),
			"--replication-factor", "1",
		})
		if err == nil && exitCode == 0 {
			return nil
		}

		var out string
		if reader != nil {
			b, _ := io.ReadAll(reader)
			out = strings.TrimSpace(string(b))
		}

		if i == attempts-1 {
			if err != nil {
				return fmt.Errorf("exec kafka-topics failed: %w; output=%q", err, out)
			}
			return fmt.Errorf("kafka-topics exit=%d; output=%q", exitCode, out)
		}

		time.Sleep(250 * time.Millisecond)
	}

	return fmt.Errorf("unreachable")
}

func (c *KafkaContainer) Cleanup(ctx context.Context) {
	if c.Container != nil {
		c.Container.Terminate(ctx)
	}
}
