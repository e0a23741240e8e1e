package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/blog-service/internal/config"
	"github.com/Dan9191/blog-service/internal/middleware"
	"github.com/Dan9191/blog-service/internal/render"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// APIPrefix is the mount point of the REST API
const APIPrefix = "/api/v0"

// NewRouter wires public routes, the authenticated API and the error pages
func NewRouter(h *Handler, auth middleware.Authenticator, cfg *config.Config, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/register/", h.Register).Methods("POST")

	// Protected routes
	authGate := middleware.AuthMiddleware(auth, cfg.RegisterURL, log)
	api := r.PathPrefix(APIPrefix).Subrouter()
	api.Use(authGate)
	api.HandleFunc("/token", h.Login).Methods("POST")
	api.HandleFunc("/users", h.ListUsers).Methods("GET")
	api.HandleFunc("/users", h.CreateUser).Methods("POST")
	api.HandleFunc("/users/{username}", h.GetUser).Methods("GET")
	api.HandleFunc("/users/{username}", h.UpdateUser).Methods("PUT")
	api.HandleFunc("/users/{username}", h.DeleteUser).Methods("DELETE")
	api.HandleFunc("/users/{username}/posts", h.ListPosts).Methods("GET")
	api.HandleFunc("/users/{username}/posts", h.CreatePost).Methods("POST")
	api.HandleFunc("/users/{username}/posts/{id:[0-9]+}", h.GetPost).Methods("GET")
	api.HandleFunc("/users/{username}/posts/{id:[0-9]+}", h.UpdatePost).Methods("PUT")
	api.HandleFunc("/users/{username}/posts/{id:[0-9]+}", h.DeletePost).Methods("DELETE")

	// mux skips subrouter middleware for unmatched requests, so the API
	// fallbacks are gated explicitly.
	api.NotFoundHandler = authGate(http.HandlerFunc(h.NotFound))
	api.MethodNotAllowedHandler = authGate(http.HandlerFunc(h.MethodNotAllowed))
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	var root http.Handler = r
	root = middleware.Recoverer(APIPrefix, log)(root)
	root = middleware.RequestLogger(log)(root)
	return root
}

// NotFound answers unknown API paths with the JSON envelope and everything else with the HTML page
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, APIPrefix) {
		render.Error(w, r, http.StatusNotFound, "The requested URL was not found on the server")
		return
	}
	if err := render.Page(w, http.StatusNotFound); err != nil {
		h.log.WithError(err).Error("Failed to render error page")
	}
}

// MethodNotAllowed answers a known path requested with the wrong method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Error(w, r, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL")
}
