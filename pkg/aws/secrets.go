package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const DefaultSecretsTTL = 15 * time.Minute

type SecretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type cachedSecret struct {
	value     string
	fetchedAt time.Time
}

// SecretsClient resolves Secrets Manager values. A name of the form
// "secret-id#KEY" reads KEY from a JSON object secret, so one bundle can hold
// the gateway, storage and token credentials together. Raw secret strings are
// cached for ttl.
type SecretsClient struct {
	client SecretsAPI
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedSecret
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return NewSecretsClientWithAPI(secretsmanager.NewFromConfig(cfg), DefaultSecretsTTL)
}

func NewSecretsClientWithAPI(client SecretsAPI, ttl time.Duration) *SecretsClient {
	if ttl <= 0 {
		ttl = DefaultSecretsTTL
	}
	return &SecretsClient{
		client: client,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]cachedSecret),
	}
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	id, key, bundled := strings.Cut(name, "#")
	raw, err := s.raw(ctx, id)
	if err != nil {
		return "", err
	}
	if !bundled {
		return raw, nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", id, err)
	}
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("secret %s has no key %s", id, key)
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(val), nil
	}
}

func (s *SecretsClient) raw(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	c, ok := s.cache[id]
	s.mu.RUnlock()
	if ok && s.now().Sub(c.fetchedAt) < s.ttl {
		return c.value, nil
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &id})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", id, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", id)
	}

	s.mu.Lock()
	s.cache[id] = cachedSecret{value: *out.SecretString, fetchedAt: s.now()}
	s.mu.Unlock()
	return *out.SecretString, nil
}
