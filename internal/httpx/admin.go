package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// Authorizer accepts or rejects an admin bearer token.
type Authorizer interface {
	Authorize(ctx context.Context, token string) error
}

// RequireAdmin lets a request through only with a valid bearer token, or an
// access_token query parameter for clients that cannot set headers
// (EventSource). The 401 body carries a redirect to the login page that
// returns to the requested path.
func RequireAdmin(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("access_token")
		}
		err := a.Authorize(c.Request.Context(), token)
		if err == nil {
			c.Next()
			return
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			Fail(c, err)
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, HTTPError{
			Error:    "unauthorized",
			Redirect: LoginPath + "?from=" + url.QueryEscape(c.Request.URL.Path),
		})
	}
}

func bearer(h string) string {
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
