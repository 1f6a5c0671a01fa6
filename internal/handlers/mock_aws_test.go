package handlers

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/imrishuroy/go-storefront-backend/internal/catalog"
	"github.com/imrishuroy/go-storefront-backend/internal/identity"
)

// mockDynamo backs all three tables (products, users, orders) for handler
// tests, dispatching on TableName. Items keep insertion order per table.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]*mockTable
}

type mockTable struct {
	order []string
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]*mockTable{}}
}

func (m *mockDynamo) table(name string) *mockTable {
	t, ok := m.tables[name]
	if !ok {
		t = &mockTable{items: map[string]map[string]types.AttributeValue{}}
		m.tables[name] = t
	}
	return t
}

func (m *mockDynamo) count(tableName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(tableName).items)
}

func itemPK(item map[string]types.AttributeValue) (string, error) {
	for _, attr := range []string{"product_id", "user_id", "order_id"} {
		if v, ok := item[attr]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("no primary key in item")
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.table(*params.TableName)
	pk, err := itemPK(params.Item)
	if err != nil {
		return nil, err
	}
	if _, exists := tbl.items[pk]; !exists {
		tbl.order = append(tbl.order, pk)
	}
	tbl.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.table(*params.TableName)
	pk, err := itemPK(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.table(*params.TableName)
	out := &dyn.ScanOutput{}
	for _, pk := range tbl.order {
		out.Items = append(out.Items, tbl.items[pk])
	}
	return out, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.IndexName == nil || *params.IndexName != catalog.SlugIndexName {
		return nil, errors.New("unexpected index")
	}
	tbl := m.table(*params.TableName)
	want := params.ExpressionAttributeValues[":slug"].(*types.AttributeValueMemberS).Value

	out := &dyn.QueryOutput{}
	for _, pk := range tbl.order {
		item := tbl.items[pk]
		if sl, ok := item["slug"].(*types.AttributeValueMemberS); ok && sl.Value == want {
			out.Items = append(out.Items, item)
			if params.Limit != nil && len(out.Items) >= int(*params.Limit) {
				break
			}
		}
	}
	return out, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.table(*params.TableName)
	pk, err := itemPK(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl.items[pk]
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
		name, ok := params.ExpressionAttributeNames[parts[0]]
		if !ok {
			return nil, errors.New("unresolved name: " + parts[0])
		}
		value, ok := params.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, errors.New("unresolved value: " + parts[1])
		}
		item[name] = value
	}
	tbl.items[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func putUser(m *mockDynamo, tableName string, u identity.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return err
	}
	_, err = m.PutItem(context.Background(), &dyn.PutItemInput{
		TableName: &tableName,
		Item:      item,
	})
	return err
}

// mockS3 counts uploads; it always succeeds unless fail is set.
type mockS3 struct {
	mu      sync.Mutex
	uploads int
	fail    bool
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if _, err := io.Copy(io.Discard, params.Body); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("simulated upload failure")
	}
	m.uploads++
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) uploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

// mockSQS records sent message bodies.
type mockSQS struct {
	mu     sync.Mutex
	bodies []string
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, *params.MessageBody)
	return &sqs.SendMessageOutput{}, nil
}
