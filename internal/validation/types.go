package validation

// CreateProductRequest is the metadata half of the multipart POST /products
// body (the thumbnail and images file parts are read separately).
//
// Only title is validated — it is the input to slug derivation. Every other
// field is pass-through: whatever the admin form posts is persisted as
// given, with no range or consistency checks.
type CreateProductRequest struct {
	Title              string  `form:"title" validate:"required"`
	Category           string  `form:"category"`
	Price              float64 `form:"price"`
	Rating             float64 `form:"rating"`
	DiscountPercentage float64 `form:"discountPercentage"`
	Description        string  `form:"description"`
	Stock              int     `form:"stock"`
	Brand              string  `form:"brand"`
}
