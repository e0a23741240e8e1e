package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/blog-service/internal/middleware"
	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/render"
	"github.com/Dan9191/blog-service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register handles self-service user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.ValidateRegistration()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusCreated, user)
}

// Login issues a bearer token to the basic-auth authenticated caller
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.fail(w, r, models.ErrUnauthorized)
		return
	}

	token, err := h.svc.Login(user)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, token)
}

// Health reports whether the store is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		render.Respond(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	render.Respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a single JSON value into dst. An empty body decodes as {} so
// that validation can report the missing fields.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err == nil {
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON body")
		}
	}
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return false
	}
	return true
}

// fail maps a service error onto its HTTP status
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		render.ValidationFailed(w, r, ve.Fields)
	case errors.Is(err, models.ErrConstraintViolation):
		render.Error(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrReference):
		render.Error(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		render.Error(w, r, http.StatusForbidden, err.Error())
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		render.Error(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
