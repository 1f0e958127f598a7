package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryFor(t *testing.T, rawQuery string) Query {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/personas?"+rawQuery, nil)
	return FromContext(c)
}

func TestFromContextDefaults(t *testing.T) {
	q := queryFor(t, "")
	assert.Equal(t, Query{Page: DefaultPage, Size: DefaultSize}, q)

	q = queryFor(t, "page=garbage&size=-3")
	assert.Equal(t, Query{Page: DefaultPage, Size: DefaultSize}, q)
}

func TestFromContextClampsSize(t *testing.T) {
	q := queryFor(t, "page=3&size=250")
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, MaxSize, q.Size)
}

func TestQueryOffset(t *testing.T) {
	assert.Equal(t, 0, Query{Page: 1, Size: 20}.Offset())
	assert.Equal(t, 40, Query{Page: 3, Size: 20}.Offset())
}

func TestMetaWindowMath(t *testing.T) {
	m := Meta(41, Query{Page: 2, Size: 20})
	assert.EqualValues(t, 41, m.Total)
	assert.Equal(t, 3, m.TotalPage)
	assert.True(t, m.HasNextPage)

	m = Meta(41, Query{Page: 3, Size: 20})
	assert.False(t, m.HasNextPage)

	m = Meta(0, Query{Page: 1, Size: 20})
	assert.Equal(t, 0, m.TotalPage)
	assert.False(t, m.HasNextPage)
}
