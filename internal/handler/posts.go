package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/render"
	"github.com/Dan9191/blog-service/internal/service"
	"github.com/gorilla/mux"
)

// ListPosts handles listing a user's posts
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, map[string]any{"posts": posts})
}

// CreatePost handles post creation for a user
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.Validate()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), mux.Vars(r)["username"], params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, post)
}

// GetPost handles a single post lookup scoped to its owner
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	post, err := h.svc.GetPost(r.Context(), mux.Vars(r)["username"], id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, map[string]any{"post": post})
}

// UpdatePost handles partial post updates
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req service.UpdatePostRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.Validate()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), mux.Vars(r)["username"], id, params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusCreated, post)
}

// DeletePost handles post removal
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.DeletePost(r.Context(), mux.Vars(r)["username"], id); err != nil {
		h.fail(w, r, err)
		return
	}
	render.Respond(w, r, http.StatusOK, struct{}{})
}

// postID parses the {id} path segment. The route only admits digits, so
// failure here means the value overflows int64.
func postID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", raw, models.ErrNotFound)
	}
	return id, nil
}
