package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dan9191/blog-service/internal/models"
)

// Column limits of the users and posts tables.
const (
	maxUsernameLen = 80
	maxEmailLen    = 80
	maxNameLen     = 30
	maxTitleLen    = 200

	// bcrypt rejects longer input
	maxPasswordLen = 72
)

// CreateUserRequest is the body of POST /users and POST /register.
// Pointer fields distinguish a missing field from a zero value.
type CreateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsAdmin   *bool   `json:"is_admin"`
}

// CreateUserParams is a validated CreateUserRequest
type CreateUserParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsAdmin   bool
}

// Validate checks every field of an admin-side user creation.
func (r CreateUserRequest) Validate() (CreateUserParams, error) {
	v := models.NewValidationError()
	p := r.validateCommon(v)
	if r.IsAdmin == nil {
		v.Add("is_admin", "is required")
	} else {
		p.IsAdmin = *r.IsAdmin
	}
	return p, v.OrNil()
}

// ValidateRegistration checks a self-service registration. is_admin is ignored and forced off.
func (r CreateUserRequest) ValidateRegistration() (CreateUserParams, error) {
	v := models.NewValidationError()
	p := r.validateCommon(v)
	p.IsAdmin = false
	return p, v.OrNil()
}

func (r CreateUserRequest) validateCommon(v *models.ValidationError) CreateUserParams {
	var p CreateUserParams
	p.Username = requireText(v, "username", r.Username, maxUsernameLen)
	p.Email = requireText(v, "email", r.Email, maxEmailLen)
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		v.Add("email", "must be an email address")
	}
	if r.Password == nil || *r.Password == "" {
		v.Add("password", "is required")
	} else {
		checkPassword(v, *r.Password)
		p.Password = *r.Password
	}
	p.FirstName = requireName(v, "first_name", r.FirstName)
	p.LastName = requireName(v, "last_name", r.LastName)
	return p
}

// UpdateUserRequest is the body of PUT /users/{username}. Absent fields are kept.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsAdmin   *bool   `json:"is_admin"`
}

// UpdateUserParams holds the validated replacements; nil means unchanged.
type UpdateUserParams struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsAdmin   *bool
}

func (r UpdateUserRequest) Validate() (UpdateUserParams, error) {
	v := models.NewValidationError()
	var p UpdateUserParams
	if r.Username != nil {
		p.Username = ptr(requireText(v, "username", r.Username, maxUsernameLen))
	}
	if r.Email != nil {
		p.Email = ptr(requireText(v, "email", r.Email, maxEmailLen))
		if *p.Email != "" && !strings.Contains(*p.Email, "@") {
			v.Add("email", "must be an email address")
		}
	}
	if r.Password != nil {
		if *r.Password == "" {
			v.Add("password", "must not be empty")
		}
		checkPassword(v, *r.Password)
		p.Password = ptr(*r.Password)
	}
	if r.FirstName != nil {
		p.FirstName = ptr(requireName(v, "first_name", r.FirstName))
	}
	if r.LastName != nil {
		p.LastName = ptr(requireName(v, "last_name", r.LastName))
	}
	if r.IsAdmin != nil {
		p.IsAdmin = ptr(*r.IsAdmin)
	}
	if p == (UpdateUserParams{}) {
		v.Add("body", "no updatable fields supplied")
	}
	return p, v.OrNil()
}

// CreatePostRequest is the body of POST /users/{username}/posts
type CreatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
}

type CreatePostParams struct {
	Title   string
	Content string
	Active  bool
}

func (r CreatePostRequest) Validate() (CreatePostParams, error) {
	v := models.NewValidationError()
	var p CreatePostParams
	p.Title = requireText(v, "title", r.Title, maxTitleLen)
	p.Content = requireText(v, "content", r.Content, 0)
	if r.Active == nil {
		v.Add("active", "is required")
	} else {
		p.Active = *r.Active
	}
	return p, v.OrNil()
}

// UpdatePostRequest is the body of PUT /users/{username}/posts/{id}. Absent fields are kept.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
}

type UpdatePostParams struct {
	Title   *string
	Content *string
	Active  *bool
}

func (r UpdatePostRequest) Validate() (UpdatePostParams, error) {
	v := models.NewValidationError()
	var p UpdatePostParams
	if r.Title != nil {
		p.Title = ptr(requireText(v, "title", r.Title, maxTitleLen))
	}
	if r.Content != nil {
		p.Content = ptr(requireText(v, "content", r.Content, 0))
	}
	if r.Active != nil {
		p.Active = ptr(*r.Active)
	}
	if p == (UpdatePostParams{}) {
		v.Add("body", "no updatable fields supplied")
	}
	return p, v.OrNil()
}

// requireText trims s and rejects it when missing, blank or longer than max (0 = unbounded).
func requireText(v *models.ValidationError, field string, s *string, max int) string {
	if s == nil {
		v.Add(field, "is required")
		return ""
	}
	text := strings.TrimSpace(*s)
	if text == "" {
		v.Add(field, "must not be empty")
		return ""
	}
	if max > 0 && utf8.RuneCountInString(text) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return text
}

// requireName accepts an empty name but not a missing or oversized one.
func requireName(v *models.ValidationError, field string, s *string) string {
	if s == nil {
		v.Add(field, "is required")
		return ""
	}
	name := strings.TrimSpace(*s)
	if utf8.RuneCountInString(name) > maxNameLen {
		v.Add(field, fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	return name
}

// checkPassword bounds the password in bytes, not runes.
func checkPassword(v *models.ValidationError, password string) {
	if len(password) > maxPasswordLen {
		v.Add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordLen))
	}
}

func ptr[T any](v T) *T {
	return &v
}
