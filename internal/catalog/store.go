package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/go-storefront-backend/internal/aws"
)

// SlugIndexName is the GSI on the products table keyed by slug.
const SlugIndexName = "slug-index"

// ErrNotFound indicates no product matched the given slug.
var ErrNotFound = errors.New("product not found")

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new product. No condition expression guards the slug:
// two products with colliding slugs can both be created, and slug lookups
// then resolve to the first match.
func (s *Store) Create(ctx context.Context, p *Product) error {
	now := s.nowFunc()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	item, err := attributevalue.MarshalMap(*p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// List returns every product in the table. No filtering or pagination is
// exposed to callers; internally the Scan is paged until exhaustion.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	var out []Product
	var startKey map[string]types.AttributeValue

	for {
		resp, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}

		var page []Product
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		out = append(out, page...)

		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}

	if out == nil {
		out = []Product{}
	}
	return out, nil
}

// GetBySlug queries the slug GSI for the given (already lowercased) slug.
// Returns (nil, nil) if no product matches.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	resp, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              strPtr(SlugIndexName),
		KeyConditionExpression: strPtr("#sl = :slug"),
		ExpressionAttributeNames: map[string]string{
			"#sl": "slug",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: slug},
		},
		Limit: int32Ptr(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query slug index: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	var p Product
	if err := attributevalue.UnmarshalMap(resp.Items[0], &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// UpdateBySlug applies the caller-supplied partial field set as an
// unconditional merge-overwrite onto the product matching slug. There is no
// field whitelist: any attribute present in fields, including derived ones
// like slug or thumbnail, overwrites the stored value. Returns the full
// updated item, arbitrary attributes included, or ErrNotFound.
func (s *Store) UpdateBySlug(ctx context.Context, slug string, fields map[string]interface{}) (map[string]interface{}, error) {
	existing, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	// product_id is the partition key and cannot be SET
	delete(fields, "product_id")

	if len(fields) == 0 {
		raw, err := attributevalue.MarshalMap(*existing)
		if err != nil {
			return nil, fmt.Errorf("marshal existing product: %w", err)
		}
		return unmarshalItem(raw)
	}

	// deterministic expression ordering keeps the call reproducible in tests
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updateExpr := "SET "
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	for i, k := range keys {
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", k, err)
		}
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		if i > 0 {
			updateExpr += ", "
		}
		updateExpr += name + " = " + value
		names[name] = k
		values[value] = av
	}

	// always bump updated_at alongside the caller's fields
	updateExpr += ", #ua = :ua"
	names["#ua"] = "updated_at"
	uaAV, err := attributevalue.Marshal(s.nowFunc())
	if err != nil {
		return nil, fmt.Errorf("marshal updated_at: %w", err)
	}
	values[":ua"] = uaAV

	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: existing.ProductID},
		},
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	return unmarshalItem(out.Attributes)
}

// unmarshalItem decodes a raw item into a generic map so attributes outside
// the Product struct (written through the no-whitelist update path) survive
// the round trip back to the caller.
func unmarshalItem(item map[string]types.AttributeValue) (map[string]interface{}, error) {
	var rec map[string]interface{}
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return rec, nil
}

func strPtr(s string) *string { return &s }
func int32Ptr(i int32) *int32 { return &i }
