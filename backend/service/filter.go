package service

import (
	"strings"

	"gorm.io/gorm"
)

// Sort fields recognized by the listing endpoints. Anything else silently
// falls back to github_stars.
var sortFields = map[string]string{
	"id":           "id",
	"created_at":   "created_at",
	"github_stars": "github_stars",
	"views":        "views",
	"downloads":    "downloads",
	"name":         "name",
}

const defaultSortField = "github_stars"

// searchOrder is the fixed multi-key order used whenever free-text search is
// active; it overrides any user-selected sort unconditionally.
const searchOrder = "github_stars DESC, views DESC, created_at DESC"

// searchFallbackOrder is the simplified order retried once when the primary
// search query fails.
const searchFallbackOrder = "github_stars DESC"

// OrderClause maps a requested sort field and direction onto a SQL order
// expression, applying the allow-list and the desc default.
func OrderClause(sort, direction string) string {
	field, ok := sortFields[sort]
	if !ok {
		field = defaultSortField
	}
	dir := "DESC"
	if strings.EqualFold(direction, "asc") {
		dir = "ASC"
	}
	return field + " " + dir
}

// ListFilter is the typed set of filter predicates the listing endpoints
// recognize. Unknown filter keys are rejected at the HTTP boundary and never
// reach this layer.
type ListFilter struct {
	Cat       string
	Developer string
	Search    string
}

// Apply adds the exact-match predicates to the query. The search predicate
// is applied separately because it switches the listing into search mode.
func (f ListFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.Cat != "" {
		tx = tx.Where("cat = ?", f.Cat)
	}
	if f.Developer != "" {
		tx = tx.Where("developer = ?", f.Developer)
	}
	return tx
}

// NormalizedSearch returns the lower-cased, trimmed search term, empty when
// the input is blank.
func (f ListFilter) NormalizedSearch() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// likeEscaper neutralizes LIKE metacharacters so the search term matches
// literally. The escape character is one without special meaning in either
// SQLite or MySQL string literals.
var likeEscaper = strings.NewReplacer("#", "##", "%", "#%", "_", "#_")

// applySearch adds the case-insensitive substring predicate OR'd across
// name, description and developer.
func applySearch(tx *gorm.DB, term string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return tx.Where(
		"LOWER(name) LIKE ? ESCAPE '#' OR LOWER(description) LIKE ? ESCAPE '#' OR LOWER(developer) LIKE ? ESCAPE '#'",
		pattern, pattern, pattern,
	)
}
