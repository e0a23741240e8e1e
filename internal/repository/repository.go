package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	userColumns = "id, username, email, password_hash, first_name, last_name, created_at, active, is_admin"
	postColumns = "id, user_id, title, content, created_at, active"
)

// Repository provides database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, active, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, nullableBytes(user.PasswordHash), user.FirstName, user.LastName, user.Active, user.IsAdmin).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

// GetUserByID retrieves a user by id
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUserBy(ctx, "id", id)
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUserBy(ctx, "username", username)
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUserBy(ctx, "email", email)
}

// findUserBy looks a user up by column. column is never caller supplied.
func (r *Repository) findUserBy(ctx context.Context, column string, value any) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	err := r.db.GetContext(ctx, user, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by id
func (r *Repository) ListUsers(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser writes every mutable column of user
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, first_name = $4, last_name = $5, active = $6, is_admin = $7
		WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, nullableBytes(user.PasswordHash), user.FirstName, user.LastName, user.Active, user.IsAdmin, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}
	return expectAffected(res, "failed to update user")
}

// DeleteUser removes a user together with the user's posts
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user posts: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return expectAffected(res, "failed to delete user")
	})
}

// CountUsers returns the number of stored users
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CreatePost creates a new post owned by post.UserID
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, title, content, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, post.UserID, post.Title, post.Content, post.Active).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", translateError(err))
	}
	return nil
}

// GetPostByID retrieves a post by id regardless of owner
func (r *Repository) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	post := &models.Post{}
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)
	err := r.db.GetContext(ctx, post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// GetUserPost retrieves a post only if userID owns it
func (r *Repository) GetUserPost(ctx context.Context, userID, postID int64) (*models.Post, error) {
	post := &models.Post{}
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1 AND user_id = $2`, postColumns)
	err := r.db.GetContext(ctx, post, query, postID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPostsByUserID returns the posts owned by userID ordered by id
func (r *Repository) ListPostsByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts := []*models.Post{}
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE user_id = $1 ORDER BY id`, postColumns)
	if err := r.db.SelectContext(ctx, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost writes title, content and active of post
func (r *Repository) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, active = $3
		WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.Active, post.ID, post.UserID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", translateError(err))
	}
	return expectAffected(res, "failed to update post")
}

// DeletePost removes a post owned by userID
func (r *Repository) DeletePost(ctx context.Context, userID, postID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectAffected(res, "failed to delete post")
}

// CountPosts returns the number of stored posts
func (r *Repository) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// withTx runs fn inside a transaction, committing on success and rolling back on error or panic.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}

// translateError maps postgres constraint failures onto domain errors.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return &models.ConstraintError{Field: constraintField(pqErr.Constraint)}
	case foreignKeyViolation:
		return models.ErrReference
	}
	return err
}

// constraintField turns "users_email_key" into "email".
func constraintField(constraint string) string {
	field := strings.TrimSuffix(constraint, "_key")
	if i := strings.Index(field, "_"); i >= 0 {
		field = field[i+1:]
	}
	if field == "" {
		return "record"
	}
	return field
}

func expectAffected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// nullableBytes stores an empty hash as NULL.
func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
