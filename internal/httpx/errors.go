package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
	// Redirect is set on 401 responses from admin routes.
	Redirect string `json:"redirect,omitempty"`
}

// Status maps a domain error to its HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Fail aborts the request with the status for err. Server errors are logged
// and their detail is not sent to the client.
func Fail(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("rid", c.GetString(ridKey)).Str("path", c.Request.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, HTTPError{Error: msg})
}

// BadRequest aborts with 400 and msg.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPError{Error: msg})
}
