package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	idFunc    func() string
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		idFunc:    uuid.NewString,
	}
}

// Create persists the caller payload verbatim, adding order_id and
// created_at. The stored record (ids included) is returned so the handler
// can echo it back.
func (s *Store) Create(ctx context.Context, payload map[string]interface{}) (Record, error) {
	rec := Record{}
	for k, v := range payload {
		rec[k] = v
	}
	rec["order_id"] = s.idFunc()
	rec["created_at"] = s.nowFunc().UTC().Format(time.RFC3339)

	item, err := attributevalue.MarshalMap(map[string]interface{}(rec))
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return rec, nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return Record(rec), nil
}
