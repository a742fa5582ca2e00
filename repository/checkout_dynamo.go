package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DynamoAPI is the subset of the DynamoDB client the checkout store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoCheckoutStore stores snapshots in a table keyed by gateway_order_id.
// expires_at is the table's TTL attribute; reads also check it because
// DynamoDB expiry is lazy.
type DynamoCheckoutStore struct {
	client DynamoAPI
	table  string
	now    func() time.Time
}

func NewDynamoCheckoutStore(client DynamoAPI, table string) *DynamoCheckoutStore {
	return &DynamoCheckoutStore{client: client, table: table, now: time.Now}
}

type ddbCheckout struct {
	GatewayOrderID string  `dynamodbav:"gateway_order_id"`
	UserID         string  `dynamodbav:"user_id"`
	Lines          string  `dynamodbav:"lines"`
	Amount         float64 `dynamodbav:"amount"`
	AmountMinor    int64   `dynamodbav:"amount_minor"`
	Currency       string  `dynamodbav:"currency"`
	Source         string  `dynamodbav:"source"`
	Provider       string  `dynamodbav:"provider"`
	CreatedAt      string  `dynamodbav:"created_at"`
	ExpiresAt      int64   `dynamodbav:"expires_at"`
}

func (s *DynamoCheckoutStore) Save(ctx context.Context, snap *models.CheckoutSnapshot, ttl time.Duration) error {
	lines, err := json.Marshal(snap.Lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}
	item, err := attributevalue.MarshalMap(ddbCheckout{
		GatewayOrderID: snap.GatewayOrderID,
		UserID:         snap.UserID.Hex(),
		Lines:          string(lines),
		Amount:         snap.Amount,
		AmountMinor:    snap.AmountMinor,
		Currency:       snap.Currency,
		Source:         snap.Source,
		Provider:       snap.Provider,
		CreatedAt:      snap.CreatedAt.Format(time.RFC3339),
		ExpiresAt:      s.now().Add(ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (s *DynamoCheckoutStore) key(gatewayOrderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"gateway_order_id": &types.AttributeValueMemberS{Value: gatewayOrderID},
	}
}

func (s *DynamoCheckoutStore) Get(ctx context.Context, gatewayOrderID string) (*models.CheckoutSnapshot, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            s.key(gatewayOrderID),
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var rec ddbCheckout
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if rec.ExpiresAt > 0 && s.now().Unix() >= rec.ExpiresAt {
		return nil, ErrNotFound
	}

	snap := &models.CheckoutSnapshot{
		GatewayOrderID: rec.GatewayOrderID,
		Amount:         rec.Amount,
		AmountMinor:    rec.AmountMinor,
		Currency:       rec.Currency,
		Source:         rec.Source,
		Provider:       rec.Provider,
	}
	if snap.UserID, err = primitive.ObjectIDFromHex(rec.UserID); err != nil {
		return nil, fmt.Errorf("stored user id: %w", err)
	}
	if err := json.Unmarshal([]byte(rec.Lines), &snap.Lines); err != nil {
		return nil, fmt.Errorf("stored lines: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
		snap.CreatedAt = t
	}
	return snap, nil
}

func (s *DynamoCheckoutStore) Delete(ctx context.Context, gatewayOrderID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &s.table, Key: s.key(gatewayOrderID)})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
