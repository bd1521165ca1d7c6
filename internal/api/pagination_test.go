package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"parses a valid number", "page=3", 3},
		{"missing key falls back", "", 1},
		{"non-numeric value falls back", "page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			assert.Equal(t, tt.want, QueryInt(c, "page", 1))
		})
	}
}

func TestListPayload(t *testing.T) {
	items := []string{"a", "b"}

	payload := ListPayload("items", items, 11, 2, 5)

	assert.Equal(t, items, payload["items"])
	assert.Equal(t, int64(11), payload["totalCount"])
	// 11 rows at 5 per page round up to 3 pages
	assert.Equal(t, int64(3), payload["totalPages"])
	assert.Equal(t, 2, payload["currentPage"])
}
