package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/leathershop/internal/domain"
)

type tokenAuth struct {
	want string
	err  error
}

func (a tokenAuth) Authorize(_ context.Context, token string) error {
	if a.err != nil {
		return a.err
	}
	if token != a.want {
		return domain.ErrUnauthorized
	}
	return nil
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/admin/orders", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/fail/:kind", func(c *gin.Context) {
		errs := map[string]error{
			"invalid": fmt.Errorf("%w: name required", domain.ErrInvalid),
			"missing": fmt.Errorf("order %q: %w", "x", domain.ErrNotFound),
			"stock":   domain.ErrInsufficientStock,
			"boom":    fmt.Errorf("disk on fire"),
		}
		Fail(c, errs[c.Param("kind")])
	})
	return r
}

func TestRequestIDEchoedOrGenerated(t *testing.T) {
	r := newRouter(RequestID(), Logger())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("X-Request-ID=%q, want abc", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Fatalf("generated X-Request-ID=%q", got)
	}
}

func TestFailMapsDomainErrors(t *testing.T) {
	r := newRouter()
	cases := map[string]int{
		"invalid": http.StatusBadRequest,
		"missing": http.StatusNotFound,
		"stock":   http.StatusConflict,
		"boom":    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail/"+kind, nil))
		if w.Code != want {
			t.Fatalf("%s: status=%d want=%d body=%s", kind, w.Code, want, w.Body.String())
		}
		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if kind == "boom" && body.Error != "internal error" {
			t.Fatalf("server error detail leaked: %q", body.Error)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(RequireAdmin(tokenAuth{want: "good"}))

	// no token
	{
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		var body HTTPError
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Redirect != "/admin/login?from=%2Fapi%2Fadmin%2Forders" {
			t.Fatalf("redirect=%q", body.Redirect)
		}
	}

	// valid token
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer good")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}

	// wrong scheme
	{
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		req.Header.Set("Authorization", "Basic good")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d", w.Code)
		}
	}
}

func TestRequireAdminBackendError(t *testing.T) {
	r := newRouter(RequireAdmin(tokenAuth{err: fmt.Errorf("store down")}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer x")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 0.001, 2)
	r := newRouter(rl.Middleware())

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes=%v", codes)
	}

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second client status=%d", w.Code)
	}
}

func TestRequireAdminQueryToken(t *testing.T) {
	r := newRouter(RequireAdmin(tokenAuth{want: "good"}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders?access_token=good", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
