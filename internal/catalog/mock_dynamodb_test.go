package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory mock of the DynamoDB operations the
// catalog store uses. Items keep insertion order so "first match" slug
// resolution is deterministic. Not production-grade.
type mockDynamo struct {
	mu       sync.Mutex
	order    []string // pk values in insertion order
	items    map[string]map[string]types.AttributeValue
	putCalls int
	failPut  bool
	failScan bool
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		items: map[string]map[string]types.AttributeValue{},
	}
}

func pkOf(item map[string]types.AttributeValue) (string, error) {
	v, ok := item["product_id"]
	if !ok {
		return "", errors.New("no product_id in item")
	}
	return v.(*types.AttributeValueMemberS).Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPut {
		return nil, errors.New("put failed")
	}
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	if _, exists := m.items[pk]; !exists {
		m.order = append(m.order, pk)
	}
	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr, ok := params.Key["product_id"]
	if !ok {
		return nil, errors.New("no key attribute")
	}
	pk := keyAttr.(*types.AttributeValueMemberS).Value
	item, ok := m.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failScan {
		return nil, errors.New("scan failed")
	}
	out := &dyn.ScanOutput{}
	for _, pk := range m.order {
		out.Items = append(out.Items, m.items[pk])
	}
	return out, nil
}

// Query only understands the slug-index lookup the store issues:
// KeyConditionExpression "#sl = :slug" with Limit 1.
func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.IndexName == nil || *params.IndexName != SlugIndexName {
		return nil, errors.New("unexpected index")
	}
	want := params.ExpressionAttributeValues[":slug"].(*types.AttributeValueMemberS).Value

	out := &dyn.QueryOutput{}
	for _, pk := range m.order {
		item := m.items[pk]
		sl, ok := item["slug"].(*types.AttributeValueMemberS)
		if ok && sl.Value == want {
			out.Items = append(out.Items, item)
			if params.Limit != nil && len(out.Items) >= int(*params.Limit) {
				break
			}
		}
	}
	return out, nil
}

// UpdateItem applies a "SET #a = :x, #b = :y" expression generically using
// the supplied attribute name/value maps.
func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr, ok := params.Key["product_id"]
	if !ok {
		return nil, errors.New("no key attribute")
	}
	pk := keyAttr.(*types.AttributeValueMemberS).Value
	item, ok := m.items[pk]
	if !ok {
		return nil, errors.New("item not found")
	}

	expr := *params.UpdateExpression
	if !strings.HasPrefix(expr, "SET ") {
		return nil, errors.New("unsupported update expression: " + expr)
	}
	for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ", ") {
		parts := strings.Split(assign, " = ")
		if len(parts) != 2 {
			return nil, errors.New("bad assignment: " + assign)
		}
		attrName, ok := params.ExpressionAttributeNames[parts[0]]
		if !ok {
			return nil, errors.New("unresolved name: " + parts[0])
		}
		attrValue, ok := params.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, errors.New("unresolved value: " + parts[1])
		}
		item[attrName] = attrValue
	}
	m.items[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}
