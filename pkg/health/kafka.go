package health

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker reports the message bus reachable when any configured broker
// accepts a TCP dial. One live broker is enough for the render pipeline to
// make progress.
type KafkaChecker struct {
	brokers []string
}

func NewKafkaChecker(brokers []string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers}
}

func (c *KafkaChecker) Name() string {
	return "kafka"
}

func (c *KafkaChecker) Check(ctx context.Context) Result {
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return Result{Status: StatusUp}
		}
	}
	return Result{
		Status:  StatusDown,
		Message: fmt.Sprintf("none of %d brokers reachable", len(c.brokers)),
	}
}
