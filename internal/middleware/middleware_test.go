package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	users  map[string]string
	tokens map[string]string
	err    error
}

func (f *fakeAuth) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if pw, ok := f.users[username]; ok && pw == password {
		return &models.User{Username: username}, nil
	}
	return nil, models.ErrUnauthorized
}

func (f *fakeAuth) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	if username, ok := f.tokens[token]; ok {
		return &models.User{Username: username}, nil
	}
	return nil, models.ErrUnauthorized
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func protected(auth Authenticator) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(user.Username))
	})
	return AuthMiddleware(auth, "http://localhost/register/", quietLogger())(next)
}

func TestAuthMiddleware(t *testing.T) {
	auth := &fakeAuth{
		users:  map[string]string{"foo": "thisisatest"},
		tokens: map[string]string{"tok": "bar"},
	}
	h := protected(auth)

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
		wantBody string
	}{
		{"basic ok", func(r *http.Request) { r.SetBasicAuth("foo", "thisisatest") }, http.StatusOK, "foo"},
		{"bearer ok", func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok") }, http.StatusOK, "bar"},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("foo", "nope") }, http.StatusForbidden, ""},
		{"unknown user", func(r *http.Request) { r.SetBasicAuth("ghost", "thisisatest") }, http.StatusForbidden, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer other") }, http.StatusForbidden, ""},
		{"no credentials", func(r *http.Request) {}, http.StatusForbidden, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v0/users", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusOK {
				assert.Equal(t, tc.wantBody, rec.Body.String())
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Unauthorized Access: Please make an account at http://localhost/register/", body["message"])
			assert.Equal(t, float64(403), body["status"])
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAuthMiddleware_StoreError(t *testing.T) {
	h := protected(&fakeAuth{err: errors.New("db down")})
	req := httptest.NewRequest(http.MethodGet, "/api/v0/users", nil)
	req.SetBasicAuth("foo", "x")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	h := RequestLogger(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer("/api/", quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v0/users", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/somewhere", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
