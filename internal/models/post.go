package models

import "time"

// Post represents a blog post owned by a single user
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Active    bool      `json:"active" db:"active"`
}

// Role is a named tag optionally attached to a user. No endpoint exposes it.
type Role struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	UserID *int64 `json:"user_id" db:"user_id"`
}
