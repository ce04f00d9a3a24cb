package types

import "fmt"

// Collection is a fixed named partition of the semantic store, holding one
// kind of content.
type Collection string

const (
	CollectionArticles    Collection = "articles"
	CollectionPosts       Collection = "posts"
	CollectionTranscripts Collection = "transcripts"
)

// AllCollections returns all valid collections
func AllCollections() []Collection {
	return []Collection{
		CollectionArticles,
		CollectionPosts,
		CollectionTranscripts,
	}
}

// IsValid checks if the collection is one of the fixed partitions
func (c Collection) IsValid() bool {
	switch c {
	case CollectionArticles, CollectionPosts, CollectionTranscripts:
		return true
	default:
		return false
	}
}

// String returns the string representation of the collection
func (c Collection) String() string {
	return string(c)
}

// ParseCollection parses a string into a Collection
func ParseCollection(s string) (Collection, error) {
	col := Collection(s)
	if !col.IsValid() {
		return "", fmt.Errorf("invalid collection: %s", s)
	}
	return col, nil
}
