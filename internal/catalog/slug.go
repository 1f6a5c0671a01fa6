package catalog

import (
	"strings"

	"github.com/gosimple/slug"
)

// Slugify derives the URL-safe lookup key for a product title:
// whitespace and punctuation collapse to hyphens, then everything is
// lowercased. "Red Running Shoe" -> "red-running-shoe".
//
// Collisions are possible (two titles can slugify to the same value) and
// are not checked at create time; slug lookups resolve to the first match.
func Slugify(title string) string {
	return strings.ToLower(slug.Make(title))
}
