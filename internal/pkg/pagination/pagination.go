package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	DefaultSort  = "-updated_at"
)

// Query holds parsed pagination and sorting parameters.
type Query struct {
	Page   int
	Limit  int
	SortBy string
}

// FromContext extracts pagination params from the request query string.
func FromContext(c *gin.Context) Query {
	return Query{
		Page:   parseIntOr(c.DefaultQuery("page", "1"), DefaultPage),
		Limit:  parseIntOr(c.DefaultQuery("limit", "20"), DefaultLimit),
		SortBy: c.DefaultQuery("sort_by", DefaultSort),
	}.Clamp()
}

// Clamp enforces the minimum of 1 on page and limit.
func (q Query) Clamp() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	return q
}

// Offset returns the 0-based row offset for the 1-based page index.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseSort resolves a sort key into a whitelisted column and direction.
// A leading "-" means descending; unrecognized values fall back to
// updated_at descending.
func ParseSort(sortBy string) (field string, desc bool) {
	switch sortBy {
	case "updated_at":
		return "updated_at", false
	case "-updated_at":
		return "updated_at", true
	case "created_at":
		return "created_at", false
	case "-created_at":
		return "created_at", true
	default:
		return "updated_at", true
	}
}

// OrderClause renders the sort key as a SQL ORDER BY expression.
func (q Query) OrderClause() string {
	field, desc := ParseSort(q.SortBy)
	if desc {
		return field + " DESC"
	}
	return field + " ASC"
}

// Result is the pagination metadata of a search response.
type Result struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// Paginate counts the filtered set, then fetches one ordered page into dest.
// The count query runs over the same predicate without limit/offset.
func Paginate[T any](tx *gorm.DB, q Query, dest *[]T) (Result, error) {
	q = q.Clamp()

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Result{}, err
	}

	offset := q.Offset()
	if err := tx.Order(q.OrderClause()).Offset(offset).Limit(q.Limit).Find(dest).Error; err != nil {
		return Result{}, err
	}

	return Result{
		Page:    q.Page,
		Limit:   q.Limit,
		Total:   total,
		HasMore: int64(offset+len(*dest)) < total,
	}, nil
}

// SplitMultiValue splits a comma-separated filter value, dropping blanks.
func SplitMultiValue(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
