package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meghashyamc/whoisthat/dex"
)

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// statusFromError maps upstream Dex failures to response codes. Anything not
// recognized is an internal error.
func statusFromError(err error) int {
	var apiErr *dex.APIError
	switch {
	case errors.Is(err, dex.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dex.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, dex.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
