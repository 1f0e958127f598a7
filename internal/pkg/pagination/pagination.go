package pagination

import (
	"strconv"

	"github.com/HenryKang1/AI-market-researcher/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Survey, persona and run lists are small operator-facing collections; twenty
// rows fills a screen, and MaxSize bounds the transcript-heavy run lists.
const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// Query is the page window requested by a list endpoint.
type Query struct {
	Page int
	Size int
}

// Offset returns the number of rows before this window.
func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// FromContext reads ?page= and ?size=, falling back to the API defaults and
// clamping size to MaxSize.
func FromContext(c *gin.Context) Query {
	q := Query{
		Page: parseIntOr(c.Query("page"), DefaultPage),
		Size: parseIntOr(c.Query("size"), DefaultSize),
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

// Meta builds the envelope metadata for a window over total rows.
func Meta(total int64, q Query) response.Pagination {
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}

// Paginate applies the window to a GORM query and returns its metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := db.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	return Meta(total, q), nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
