package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Fields
}

func TestCreateUserRequest_Valid(t *testing.T) {
	req := CreateUserRequest{
		Username:  ptr(" foo "),
		Email:     ptr("foo@bar.com"),
		Password:  ptr("thisisatest"),
		FirstName: ptr("Foo"),
		LastName:  ptr(""),
		IsAdmin:   ptr(true),
	}
	p, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, CreateUserParams{Username: "foo", Email: "foo@bar.com", Password: "thisisatest", FirstName: "Foo", IsAdmin: true}, p)
}

func TestCreateUserRequest_MissingFields(t *testing.T) {
	_, err := CreateUserRequest{}.Validate()
	fields := fieldErrors(t, err)
	for _, f := range []string{"username", "email", "password", "first_name", "last_name", "is_admin"} {
		assert.Equal(t, "is required", fields[f], f)
	}
}

func TestCreateUserRequest_Malformed(t *testing.T) {
	req := CreateUserRequest{
		Username:  ptr(strings.Repeat("u", 81)),
		Email:     ptr("not-an-email"),
		Password:  ptr(""),
		FirstName: ptr(strings.Repeat("f", 31)),
		LastName:  ptr("ok"),
		IsAdmin:   ptr(false),
	}
	_, err := req.Validate()
	fields := fieldErrors(t, err)
	assert.Contains(t, fields["username"], "at most 80")
	assert.Equal(t, "must be an email address", fields["email"])
	assert.Equal(t, "is required", fields["password"])
	assert.Contains(t, fields["first_name"], "at most 30")
	assert.NotContains(t, fields, "last_name")
}

func TestCreateUserRequest_Registration(t *testing.T) {
	req := CreateUserRequest{
		Username:  ptr("foo"),
		Email:     ptr("foo@bar.com"),
		Password:  ptr("pw"),
		FirstName: ptr("a"),
		LastName:  ptr("b"),
		IsAdmin:   ptr(true),
	}
	p, err := req.ValidateRegistration()
	require.NoError(t, err)
	assert.False(t, p.IsAdmin)

	req.IsAdmin = nil
	_, err = req.ValidateRegistration()
	assert.NoError(t, err)
}

func TestUpdateUserRequest(t *testing.T) {
	p, err := UpdateUserRequest{Email: ptr("new@bar.com")}.Validate()
	require.NoError(t, err)
	require.NotNil(t, p.Email)
	assert.Equal(t, "new@bar.com", *p.Email)
	assert.Nil(t, p.Username)

	_, err = UpdateUserRequest{}.Validate()
	assert.Contains(t, fieldErrors(t, err), "body")

	_, err = UpdateUserRequest{Username: ptr("  "), Password: ptr("")}.Validate()
	fields := fieldErrors(t, err)
	assert.Equal(t, "must not be empty", fields["username"])
	assert.Equal(t, "must not be empty", fields["password"])
}

func TestCreatePostRequest(t *testing.T) {
	p, err := CreatePostRequest{Title: ptr("Hello"), Content: ptr("World"), Active: ptr(false)}.Validate()
	require.NoError(t, err)
	assert.Equal(t, CreatePostParams{Title: "Hello", Content: "World"}, p)

	_, err = CreatePostRequest{Title: ptr(strings.Repeat("t", 201)), Content: ptr("")}.Validate()
	fields := fieldErrors(t, err)
	assert.Contains(t, fields["title"], "at most 200")
	assert.Equal(t, "must not be empty", fields["content"])
	assert.Equal(t, "is required", fields["active"])
}

func TestUpdatePostRequest(t *testing.T) {
	p, err := UpdatePostRequest{Active: ptr(true)}.Validate()
	require.NoError(t, err)
	require.NotNil(t, p.Active)
	assert.True(t, *p.Active)
	assert.Nil(t, p.Title)

	_, err = UpdatePostRequest{}.Validate()
	assert.Contains(t, fieldErrors(t, err), "body")
}

func TestRequests_LengthLimits(t *testing.T) {
	long := func(n int) *string { return ptr(strings.Repeat("a", n)) }
	validUser := func() CreateUserRequest {
		return CreateUserRequest{
			Username:  ptr("foo"),
			Email:     ptr("foo@bar.com"),
			Password:  ptr("thisisatest"),
			FirstName: ptr("Foo"),
			LastName:  ptr("Bar"),
			IsAdmin:   ptr(false),
		}
	}

	tests := []struct {
		name    string
		field   string
		want    string
		request func() error
	}{
		{"username 81 runes", "username", "must be at most 80 characters", func() error {
			r := validUser()
			r.Username = ptr(strings.Repeat("ü", 81))
			_, err := r.Validate()
			return err
		}},
		{"email 81 runes", "email", "must be at most 80 characters", func() error {
			r := validUser()
			r.Email = ptr(strings.Repeat("e", 73) + "@bar.com")
			_, err := r.Validate()
			return err
		}},
		{"last name 31 runes", "last_name", "must be at most 30 characters", func() error {
			r := validUser()
			r.LastName = long(31)
			_, err := r.Validate()
			return err
		}},
		{"password 73 bytes", "password", "must be at most 72 bytes", func() error {
			r := validUser()
			r.Password = long(73)
			_, err := r.Validate()
			return err
		}},
		{"registration password 100 bytes", "password", "must be at most 72 bytes", func() error {
			r := validUser()
			r.Password = long(100)
			_, err := r.ValidateRegistration()
			return err
		}},
		{"multibyte password over 72 bytes", "password", "must be at most 72 bytes", func() error {
			r := validUser()
			r.Password = ptr(strings.Repeat("ü", 37))
			_, err := r.Validate()
			return err
		}},
		{"update password 73 bytes", "password", "must be at most 72 bytes", func() error {
			_, err := UpdateUserRequest{Password: long(73)}.Validate()
			return err
		}},
		{"update username 81 runes", "username", "must be at most 80 characters", func() error {
			_, err := UpdateUserRequest{Username: long(81)}.Validate()
			return err
		}},
		{"post title 201 runes", "title", "must be at most 200 characters", func() error {
			_, err := CreatePostRequest{Title: long(201), Content: ptr("c"), Active: ptr(true)}.Validate()
			return err
		}},
		{"update title 201 runes", "title", "must be at most 200 characters", func() error {
			_, err := UpdatePostRequest{Title: long(201)}.Validate()
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldErrors(t, tt.request())
			assert.Equal(t, tt.want, fields[tt.field])
		})
	}
}

func TestRequests_AtLimitAccepted(t *testing.T) {
	_, err := CreateUserRequest{
		Username:  ptr(strings.Repeat("u", 80)),
		Email:     ptr(strings.Repeat("e", 72) + "@bar.com"),
		Password:  ptr(strings.Repeat("p", 72)),
		FirstName: ptr(strings.Repeat("f", 30)),
		LastName:  ptr(""),
		IsAdmin:   ptr(false),
	}.Validate()
	require.NoError(t, err)

	_, err = CreatePostRequest{Title: ptr(strings.Repeat("t", 200)), Content: ptr("c"), Active: ptr(true)}.Validate()
	require.NoError(t, err)
}
