package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/reqctx"
	"github.com/ErlanBelekov/data-drive/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	authenticate func(ctx context.Context, token string) (domain.Identity, error)
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	return f.authenticate(ctx, token)
}

// acceptOnly authenticates exactly one token as subject.
func acceptOnly(token, subject string) *fakeAuthenticator {
	return &fakeAuthenticator{
		authenticate: func(_ context.Context, got string) (domain.Identity, error) {
			if got != token {
				return domain.Identity{}, domain.ErrUnauthorized
			}
			return domain.Identity{Subject: subject, Source: domain.TokenSourceSelf}, nil
		},
	}
}

// newEngine protects GET /protected and echoes the subject seen by the
// handler, both from the gin context and from the request context.
func newEngine(auth *fakeAuthenticator) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(auth), func(c *gin.Context) {
		email := c.GetString(middleware.UserEmailKey)
		c.String(http.StatusOK, "%s|%s", email, reqctx.Subject(c.Request.Context()))
	})
	return r
}

func serve(t *testing.T, auth *fakeAuthenticator, header string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	newEngine(auth).ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w := serve(t, acceptOnly("good", "a@b.com"), "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid or expired token") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	w := serve(t, acceptOnly("good", "a@b.com"), "Basic dXNlcjpwYXNz")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_EmptyBearer_Returns401(t *testing.T) {
	w := serve(t, acceptOnly("good", "a@b.com"), "Bearer ")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_RejectedToken_Returns401(t *testing.T) {
	w := serve(t, acceptOnly("good", "a@b.com"), "Bearer bad")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_AuthenticatorFault_Returns401(t *testing.T) {
	auth := &fakeAuthenticator{
		authenticate: func(_ context.Context, _ string) (domain.Identity, error) {
			return domain.Identity{}, errors.New("unexpected")
		},
	}
	w := serve(t, auth, "Bearer anything")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_SetsSubject(t *testing.T) {
	w := serve(t, acceptOnly("good", "a@b.com"), "Bearer good")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "a@b.com|a@b.com" {
		t.Errorf("body = %q, want subject in gin and request context", got)
	}
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	w := serve(t, acceptOnly("good", "a@b.com"), "bearer good")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
