package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-storefront-backend/internal/aws"
)

// Store reads user records from the users table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore returns a Store bound to the users table.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// Get fetches a user by user_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, userID string) (*User, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			return nil, fmt.Errorf("get user (%s): %w", ae.ErrorCode(), err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var u User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// IsAdmin reports whether userID resolves to a user with the admin role.
// The check is fail-closed: an unknown user or a lookup error denies; the
// error is logged, never propagated, so callers answer 403 rather than 500.
func (s *Store) IsAdmin(ctx context.Context, userID string) bool {
	user, err := s.Get(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("admin role check failed")
		return false
	}
	if user == nil {
		return false
	}
	return user.Role == RoleAdmin
}
