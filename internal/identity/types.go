package identity

import "time"

// RoleAdmin is the role required for catalog mutations.
const RoleAdmin = "admin"

// User is the item stored in the users DynamoDB table. Owned by the auth
// service; this package only reads it to resolve roles.
type User struct {
	UserID    string    `dynamodbav:"user_id"` // PK
	Email     string    `dynamodbav:"email,omitempty"`
	Name      string    `dynamodbav:"name,omitempty"`
	Role      string    `dynamodbav:"role"`
	CreatedAt time.Time `dynamodbav:"created_at,omitempty"`
}
