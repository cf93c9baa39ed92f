package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/crewdesk-api/internal/constants"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, constants.DefaultPageSize},
		{"page=3&limit=10", 3, 10},
		{"page=0&limit=1000", 1, constants.DefaultPageSize},
		{"page=abc", 1, constants.DefaultPageSize},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)

		params := GetPaginationParams(c)
		assert.Equal(t, tc.page, params.Page, tc.query)
		assert.Equal(t, tc.limit, params.Limit, tc.query)
		assert.Equal(t, (tc.page-1)*tc.limit, params.Offset, tc.query)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, PaginationParams{Page: 1, Limit: 2, Offset: 0}))
	assert.Equal(t, []int{5}, Paginate(items, PaginationParams{Page: 3, Limit: 2, Offset: 4}))
	assert.Empty(t, Paginate(items, PaginationParams{Page: 4, Limit: 2, Offset: 6}))
}
