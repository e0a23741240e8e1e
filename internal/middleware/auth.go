package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/render"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userCtxKey contextKey = "user"

// Authenticator checks request credentials
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without valid basic-auth credentials or bearer
// token with 403 and a pointer to the registration page.
func AuthMiddleware(auth Authenticator, registerURL string, log *logrus.Logger) func(http.Handler) http.Handler {
	message := fmt.Sprintf("Unauthorized Access: Please make an account at %s", registerURL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(r, auth)
			if err != nil {
				if !errors.Is(err, models.ErrUnauthorized) {
					log.WithError(err).Error("Authentication failed")
					render.Error(w, r, http.StatusInternalServerError, "Internal server error")
					return
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="Authentication Required"`)
				render.Error(w, r, http.StatusForbidden, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func authenticate(r *http.Request, auth Authenticator) (*models.User, error) {
	if username, password, ok := r.BasicAuth(); ok {
		return auth.Authenticate(r.Context(), username, password)
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return auth.VerifyToken(r.Context(), token)
	}
	return nil, models.ErrUnauthorized
}

// WithUser stores the authenticated user on ctx
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*models.User)
	return user, ok && user != nil
}
