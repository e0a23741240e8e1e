package models

import "time"

// timeLayout is RFC 3339 with fractional seconds, always in UTC.
const timeLayout = "2006-01-02T15:04:05.999999Z07:00"

// UserView is the transport form of a user. It never carries the id or password hash.
type UserView struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
	IsAdmin   bool   `json:"is_admin"`
}

// PostView is the transport form of a post
type PostView struct {
	ID        int64  `json:"id"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
	Active    bool   `json:"active"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

func NewUserView(u *User) UserView {
	return UserView{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: FormatTime(u.CreatedAt),
		IsAdmin:   u.IsAdmin,
	}
}

func NewUserViews(users []*User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}

// NewPostView renders p with owner as author. owner must be the post's owner.
func NewPostView(p *Post, owner *User) (PostView, error) {
	if owner == nil || owner.ID != p.UserID {
		return PostView{}, ErrMissingOwner
	}
	return PostView{
		ID:        p.ID,
		User:      owner.DisplayName(),
		CreatedAt: FormatTime(p.CreatedAt),
		Active:    p.Active,
		Title:     p.Title,
		Content:   p.Content,
	}, nil
}

func NewPostViews(posts []*Post, owner *User) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v, err := NewPostView(p, owner)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
