package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt parses an integer query parameter with a fallback.
func QueryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ListPayload builds the common paginated listing shape:
// {<key>, totalCount, totalPages, currentPage}.
func ListPayload(key string, items any, total int64, page, limit int) gin.H {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return gin.H{
		key:           items,
		"totalCount":  total,
		"totalPages":  totalPages,
		"currentPage": page,
	}
}
