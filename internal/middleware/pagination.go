package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const paginationKey = "pagination"

const (
	defaultPageSize = 10
	maxPageSize     = 10
)

type Page struct {
	Page int
	Size int
}

// Pagination normalizes the page and size query parameters before the handler
// runs: page defaults to 0 and is clamped to >= 0, size defaults to 10 and is
// forced back to 10 when non-numeric, <= 0, or above the maximum.
func Pagination() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.Query("page"))
		if err != nil || page < 0 {
			page = 0
		}

		size, err := strconv.Atoi(c.Query("size"))
		if err != nil || size <= 0 || size > maxPageSize {
			size = defaultPageSize
		}

		c.Set(paginationKey, Page{Page: page, Size: size})
		c.Next()
	}
}

// PageFromContext returns the normalized pagination for the request.
func PageFromContext(c *gin.Context) Page {
	if value, exists := c.Get(paginationKey); exists {
		if page, ok := value.(Page); ok {
			return page
		}
	}
	return Page{Page: 0, Size: defaultPageSize}
}
