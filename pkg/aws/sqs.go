package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client the consumer uses.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSConsumer provides methods for consuming messages from SQS queues
type SQSConsumer struct {
	client   SQSAPI
	queueURL string
}

// NewSQSConsumer creates a new SQS consumer for the given queue URL
func NewSQSConsumer(cfg sdkaws.Config, queueURL string) *SQSConsumer {
	return &SQSConsumer{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}
}

// NewSQSConsumerWithClient is used by tests and custom wiring.
func NewSQSConsumerWithClient(client SQSAPI, queueURL string) *SQSConsumer {
	return &SQSConsumer{client: client, queueURL: queueURL}
}

// MessageHandler is a function that processes an SQS message
type MessageHandler func(ctx context.Context, body string) error

// StartPolling polls SQS until ctx is cancelled.
func (c *SQSConsumer) StartPolling(ctx context.Context, handler MessageHandler) error {
	zap.L().Info("sqs polling started", zap.String("queue", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("sqs polling stopped", zap.String("queue", c.queueURL))
			return ctx.Err()
		default:
		}

		if err := c.PollOnce(ctx, handler); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			zap.L().Error("sqs poll failed", zap.Error(err))
			time.Sleep(time.Second)
		}
	}
}

// PollOnce receives one batch and deletes every message the handler accepted.
// Rejected messages become visible again after the visibility timeout.
func (c *SQSConsumer) PollOnce(ctx context.Context, handler MessageHandler) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &c.queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range result.Messages {
		if msg.Body == nil {
			continue
		}

		if err := handler(ctx, *msg.Body); err != nil {
			zap.L().Warn("sqs message handler failed", zap.Error(err), zap.Stringp("message_id", msg.MessageId))
			continue
		}

		if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      &c.queueURL,
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			zap.L().Warn("sqs delete failed", zap.Error(err), zap.Stringp("message_id", msg.MessageId))
		}
	}

	return nil
}
