package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsClient_Disabled(t *testing.T) {
	ctx := context.Background()

	var nilClient *MetricsClient
	assert.False(t, nilClient.IsEnabled())
	assert.NoError(t, nilClient.RecordCount(ctx, MetricHTTPRequests, nil))
	assert.NoError(t, nilClient.RecordLatency(ctx, MetricHTTPLatency, time.Second, nil))

	t.Setenv("CLOUDWATCH_ENABLED", "false")
	disabled := NewMetricsClient(sdkaws.Config{Region: "us-east-1"})
	assert.False(t, disabled.IsEnabled())
	assert.NoError(t, disabled.RecordValue(ctx, MetricHTTPRequests, 3, map[string]string{"Service": "x"}))
}

type scriptedQueue struct {
	messages []types.Message
	deleted  []string
	recvErr  error
}

func (q *scriptedQueue) ReceiveMessage(_ context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if q.recvErr != nil {
		return nil, q.recvErr
	}
	return &sqs.ReceiveMessageOutput{Messages: q.messages}, nil
}

func (q *scriptedQueue) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	q.deleted = append(q.deleted, *in.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func TestSQSConsumer_PollOnce(t *testing.T) {
	queue := &scriptedQueue{messages: []types.Message{
		{Body: sdkaws.String("ok"), ReceiptHandle: sdkaws.String("rh-ok")},
		{Body: sdkaws.String("retry"), ReceiptHandle: sdkaws.String("rh-retry")},
		{ReceiptHandle: sdkaws.String("rh-empty")},
	}}
	consumer := NewSQSConsumerWithClient(queue, "https://sqs.local/q")

	var seen []string
	err := consumer.PollOnce(context.Background(), func(_ context.Context, body string) error {
		seen = append(seen, body)
		if body == "retry" {
			return errors.New("try again later")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "retry"}, seen)
	assert.Equal(t, []string{"rh-ok"}, queue.deleted, "failed messages stay on the queue")

	queue.recvErr = errors.New("throttled")
	assert.ErrorContains(t, consumer.PollOnce(context.Background(), nil), "throttled")
}

func TestSQSConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	consumer := NewSQSConsumerWithClient(&scriptedQueue{}, "https://sqs.local/q")
	err := consumer.StartPolling(ctx, func(context.Context, string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

type countingSecrets struct {
	values map[string]string
	calls  int
}

func (c *countingSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	c.calls++
	v, ok := c.values[*in.SecretId]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: sdkaws.String(v)}, nil
}

func TestSecretsClient(t *testing.T) {
	ctx := context.Background()
	api := &countingSecrets{values: map[string]string{
		"storefront/ACCESS_TOKEN_SECRET": "plain",
		"storefront/prod":                `{"RAZOR_KEY_SECRET":"rzp","PORT":8080,"EMPTY":null}`,
		"storefront/broken":              "not-json",
	}}
	sc := NewSecretsClientWithAPI(api, time.Minute)
	now := time.Unix(1700000000, 0)
	sc.now = func() time.Time { return now }

	v, err := sc.GetSecret(ctx, "storefront/ACCESS_TOKEN_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	tests := []struct {
		name     string
		expected string
		wantErr  string
	}{
		{"storefront/prod#RAZOR_KEY_SECRET", "rzp", ""},
		{"storefront/prod#PORT", "8080", ""},
		{"storefront/prod#EMPTY", "", ""},
		{"storefront/prod#MISSING", "", "has no key MISSING"},
		{"storefront/broken#KEY", "", "not a JSON object"},
		{"storefront/unknown", "", "ResourceNotFoundException"},
	}
	for _, tt := range tests {
		got, err := sc.GetSecret(ctx, tt.name)
		if tt.wantErr != "" {
			assert.ErrorContains(t, err, tt.wantErr, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected, got, tt.name)
	}

	before := api.calls
	_, err = sc.GetSecret(ctx, "storefront/prod#RAZOR_KEY_SECRET")
	require.NoError(t, err)
	assert.Equal(t, before, api.calls, "bundle served from cache")

	now = now.Add(2 * time.Minute)
	_, err = sc.GetSecret(ctx, "storefront/prod#RAZOR_KEY_SECRET")
	require.NoError(t, err)
	assert.Equal(t, before+1, api.calls, "expired entries are refetched")
}
