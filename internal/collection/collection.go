// Package collection is the canonical filter-and-sort pipeline over a user's
// full bookmark list. A Query is applied as an ordered list of predicate
// stages joined with AND, followed by exactly one comparator. Handlers and any
// future dashboard client share this single pipeline instead of re-deriving
// filtered views ad hoc.
package collection

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkmark/internal/models"
)

// FavoritesTag is the reserved tag selection that keeps only favorites.
const FavoritesTag = "favorites"

type Sort string

const (
	SortNewest   Sort = "newest"
	SortOldest   Sort = "oldest"
	SortTitle    Sort = "title"
	SortFavorite Sort = "favorite"
)

// Query captures the current filter/sort state. Zero values are no-ops.
type Query struct {
	FolderID primitive.ObjectID
	Text     string
	Tag      string
	Sort     Sort
}

type predicate func(*models.Bookmark) bool

func (q Query) predicates() []predicate {
	var stages []predicate

	if !q.FolderID.IsZero() {
		stages = append(stages, func(bm *models.Bookmark) bool {
			return bm.InFolder(q.FolderID)
		})
	}

	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		stages = append(stages, func(bm *models.Bookmark) bool {
			haystack := strings.ToLower(
				bm.Title + " " + bm.URL + " " + bm.Description + " " + strings.Join(bm.Tags, " "),
			)
			return strings.Contains(haystack, needle)
		})
	}

	switch q.Tag {
	case "":
	case FavoritesTag:
		stages = append(stages, func(bm *models.Bookmark) bool {
			return bm.IsFavorite
		})
	default:
		stages = append(stages, func(bm *models.Bookmark) bool {
			for _, tag := range bm.Tags {
				if tag == q.Tag {
					return true
				}
			}
			return false
		})
	}

	return stages
}

// titleKey is the case-insensitive sort key, falling back to the URL when no
// title was saved.
func titleKey(bm *models.Bookmark) string {
	if bm.Title != "" {
		return strings.ToLower(bm.Title)
	}
	return strings.ToLower(bm.URL)
}

func (q Query) less() func(a, b *models.Bookmark) bool {
	switch q.Sort {
	case SortOldest:
		return func(a, b *models.Bookmark) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortTitle:
		return func(a, b *models.Bookmark) bool {
			return titleKey(a) < titleKey(b)
		}
	case SortFavorite:
		// Stable partition: favorites first, original order preserved within
		// each half.
		return func(a, b *models.Bookmark) bool {
			return a.IsFavorite && !b.IsFavorite
		}
	default:
		return func(a, b *models.Bookmark) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
}

// Apply runs the pipeline and returns a new slice; the input is not mutated.
func Apply(bookmarks []models.Bookmark, q Query) []models.Bookmark {
	stages := q.predicates()

	out := make([]models.Bookmark, 0, len(bookmarks))
	for _, bm := range bookmarks {
		keep := true
		for _, match := range stages {
			if !match(&bm) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, bm)
		}
	}

	less := q.less()
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

// ParseSort maps a query-parameter value onto a Sort, defaulting to newest.
func ParseSort(value string) Sort {
	switch Sort(value) {
	case SortOldest, SortTitle, SortFavorite:
		return Sort(value)
	default:
		return SortNewest
	}
}
