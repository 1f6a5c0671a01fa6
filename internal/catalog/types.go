package catalog

import "time"

// Product is the item stored in the products DynamoDB table and the JSON
// shape returned to clients. Field names on the wire follow the storefront
// frontend's expectations (camelCase for discountPercentage).
type Product struct {
	ProductID          string    `dynamodbav:"product_id" json:"id"` // PK
	Title              string    `dynamodbav:"title" json:"title"`
	Slug               string    `dynamodbav:"slug" json:"slug"` // lowercase, URL-safe, derived from title
	Category           string    `dynamodbav:"category,omitempty" json:"category"`
	Price              float64   `dynamodbav:"price" json:"price"`
	Thumbnail          string    `dynamodbav:"thumbnail,omitempty" json:"thumbnail"` // public URL, set after upload
	Rating             float64   `dynamodbav:"rating,omitempty" json:"rating"`
	DiscountPercentage float64   `dynamodbav:"discount_percentage,omitempty" json:"discountPercentage"`
	Description        string    `dynamodbav:"description,omitempty" json:"description"`
	Images             []string  `dynamodbav:"images,omitempty" json:"images"` // public URLs, caller-supplied order
	Stock              int       `dynamodbav:"stock,omitempty" json:"stock"`
	Brand              string    `dynamodbav:"brand,omitempty" json:"brand"`
	CreatedAt          time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}
