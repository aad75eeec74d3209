package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CursorParam reads a pagination cursor from the query string. The cursor
// carries the last autoIncrementId the client saw; anything non-numeric or
// negative restarts from the beginning.
func CursorParam(c *gin.Context, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
