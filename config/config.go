package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
)

// Queue and topic names follow broker entity naming rules.
const maxEntityNameLength = 260

var entityNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	PgURL     string `env:"PG_URL"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	// Kafka configuration
	KafkaBrokers []string `env:"KAFKA_BROKERS,required" envSeparator:","`

	// RenderRequestQueue activates the render request handler. An empty value
	// is valid for deployments that don't need rendering.
	RenderRequestQueue string `env:"RENDER_REQUEST_QUEUE" envDefault:"ticket-render-requests"`

	// RenderCompleteQueue activates the render complete handler in the API service.
	RenderCompleteQueue string `env:"RENDER_COMPLETE_QUEUE" envDefault:"ticket-render-complete"`

	// RenderedTicketTopic enables completion publishing from the renderer worker.
	// Empty disables it.
	RenderedTicketTopic string `env:"RENDERED_TICKET_TOPIC"`

	RenderConsumerGroup   string `env:"RENDER_CONSUMER_GROUP" envDefault:"ticket-renderer"`
	CompleteConsumerGroup string `env:"COMPLETE_CONSUMER_GROUP" envDefault:"ticketing-api"`

	// Retry policy for transient transport operations.
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`
	BaseRetryDelay time.Duration `env:"BASE_RETRY_DELAY" envDefault:"800ms"`
	MaxRetryDelay  time.Duration `env:"MAX_RETRY_DELAY" envDefault:"60s"`
	TryTimeout     time.Duration `env:"TRY_TIMEOUT" envDefault:"90s"`

	// Image storage (S3 or S3-compatible).
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey       string `env:"S3_SECRET_KEY"`
	S3ForcePathStyle  bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	TicketImagePrefix string `env:"TICKET_IMAGE_PREFIX" envDefault:"tickets"`

	// Feature flags.
	DistributedRendering bool `env:"FEATURE_DISTRIBUTED_RENDERING" envDefault:"true"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks cross-field rules that tag parsing cannot express.
// Violations are configuration errors and fatal at startup.
func (c Config) Validate() error {
	for _, name := range []string{c.RenderRequestQueue, c.RenderCompleteQueue, c.RenderedTicketTopic} {
		if name == "" {
			continue
		}
		if len(name) > maxEntityNameLength {
			return fmt.Errorf("queue/topic name %q exceeds %d characters", name, maxEntityNameLength)
		}
		if !entityNameRe.MatchString(name) {
			return fmt.Errorf("queue/topic name %q contains invalid characters", name)
		}
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	if c.BaseRetryDelay <= 0 {
		return fmt.Errorf("BASE_RETRY_DELAY must be positive, got %s", c.BaseRetryDelay)
	}
	if c.MaxRetryDelay < c.BaseRetryDelay {
		return fmt.Errorf("MAX_RETRY_DELAY (%s) must not be below BASE_RETRY_DELAY (%s)",
			c.MaxRetryDelay, c.BaseRetryDelay)
	}

	return nil
}
