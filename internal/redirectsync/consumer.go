package redirectsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
)

// messageSchema validates redirect-created payloads before they reach the
// sync hook. source_url is mandatory; channels are optional and each needs
// at least a code.
const messageSchema = `{
	"type": "object",
	"required": ["source_url"],
	"properties": {
		"source_url": {"type": "string", "minLength": 1},
		"channels": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["code"],
				"properties": {
					"code": {"type": "string", "minLength": 1},
					"hostname": {"type": "string"}
				}
			}
		}
	}
}`

// Consumer reads redirect-created events from Kafka and feeds them to the
// sync service.
type Consumer struct {
	reader  *kafka.Reader
	service *Service
	logger  logging.Logger
	schema  *gojsonschema.Schema
}

// NewConsumer builds a consumer for the given brokers, topic, and consumer
// group.
func NewConsumer(brokers []string, topic, groupID string, service *Service, logger logging.Logger) (*Consumer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(messageSchema))
	if err != nil {
		return nil, fmt.Errorf("compile redirect message schema: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		reader:  reader,
		service: service,
		logger:  logger,
		schema:  schema,
	}, nil
}

// Run consumes messages until the context is canceled. Malformed messages
// are logged and skipped; the event log is advisory data, so failed
// deletions are not retried.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("redirect-sync consumer started",
		zap.String("topic", c.reader.Config().Topic))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("read redirect message: %w", err)
		}

		c.handle(ctx, msg.Value)
	}
}

// Close shuts down the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) handle(ctx context.Context, payload []byte) {
	message, err := c.decode(payload)
	if err != nil {
		c.logger.Warn("dropping invalid redirect message",
			zap.Error(err),
			zap.ByteString("payload", payload))
		return
	}

	if err := c.service.RedirectCreated(ctx, message.SourceURL, message.Channels); err != nil {
		c.logger.Error("redirect sync failed",
			zap.String("source_url", message.SourceURL),
			zap.Error(err))
	}
}

func (c *Consumer) decode(payload []byte) (models.RedirectCreatedMessage, error) {
	var message models.RedirectCreatedMessage

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return message, fmt.Errorf("validate payload: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return message, fmt.Errorf("payload rejected by schema: %s", strings.Join(issues, "; "))
	}

	if err := json.Unmarshal(payload, &message); err != nil {
		return message, fmt.Errorf("decode payload: %w", err)
	}
	return message, nil
}
