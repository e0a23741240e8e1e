package handler

import (
	"net/http"

	"github.com/Dan9191/blog-service/internal/render"
	"github.com/Dan9191/blog-service/internal/service"
	"github.com/gorilla/mux"
)

// ListUsers handles listing every user
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, map[string]any{"users": users})
}

// CreateUser handles user creation by an authenticated caller
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.Validate()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, user)
}

// GetUser handles a single user lookup by username
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, user)
}

// UpdateUser handles partial user updates
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.Validate()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), mux.Vars(r)["username"], params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusCreated, user)
}

// DeleteUser handles user removal
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), mux.Vars(r)["username"]); err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, struct{}{})
}
