package ginutil

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrInvalidID is returned for ids that are not positive integers
var ErrInvalidID = errors.New("invalid id")

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// QueryOptionalInt returns nil when the parameter is absent or malformed
func QueryOptionalInt(c *gin.Context, key string) *int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &value
}

// QueryBool reports whether a flag parameter is set to a true value
func QueryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ParamID extracts a positive int64 id from path parameters
func ParamID(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
