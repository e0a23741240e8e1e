package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/blog-service/internal/models"
)

// MemoryRepository keeps users and posts in process memory. It enforces the
// same uniqueness, ownership and cascade rules as the postgres schema.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]*models.User
	posts      map[int64]*models.Post
	nextUserID int64
	nextPostID int64
	now        func() time.Time
}

// NewMemoryRepository initializes an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[int64]*models.User),
		posts: make(map[int64]*models.Post),
		now:   time.Now,
	}
}

func (m *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(user); err != nil {
		return err
	}
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = m.now().UTC()
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *MemoryRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return u.Username == username })
}

func (m *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return u.Email == email })
}

func (m *MemoryRepository) findUser(match func(*models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MemoryRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MemoryRepository) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[user.ID]
	if !ok {
		return models.ErrNotFound
	}
	if err := m.checkUnique(user); err != nil {
		return err
	}
	updated := copyUser(user)
	updated.CreatedAt = current.CreatedAt
	m.users[user.ID] = updated
	return nil
}

func (m *MemoryRepository) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return models.ErrNotFound
	}
	for pid, p := range m.posts {
		if p.UserID == id {
			delete(m.posts, pid)
		}
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryRepository) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryRepository) CreatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[post.UserID]; !ok {
		return models.ErrReference
	}
	m.nextPostID++
	post.ID = m.nextPostID
	post.CreatedAt = m.now().UTC()
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *MemoryRepository) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyPost(p), nil
}

func (m *MemoryRepository) GetUserPost(ctx context.Context, userID, postID int64) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[postID]
	if !ok || p.UserID != userID {
		return nil, models.ErrNotFound
	}
	return copyPost(p), nil
}

func (m *MemoryRepository) ListPostsByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*models.Post{}
	for _, p := range m.posts {
		if p.UserID == userID {
			posts = append(posts, copyPost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *MemoryRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.posts[post.ID]
	if !ok || current.UserID != post.UserID {
		return models.ErrNotFound
	}
	current.Title = post.Title
	current.Content = post.Content
	current.Active = post.Active
	return nil
}

func (m *MemoryRepository) DeletePost(ctx context.Context, userID, postID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok || p.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.posts, postID)
	return nil
}

func (m *MemoryRepository) CountPosts(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.posts)), nil
}

// checkUnique must be called with mu held.
func (m *MemoryRepository) checkUnique(user *models.User) error {
	for _, u := range m.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return &models.ConstraintError{Field: "username"}
		}
		if u.Email == user.Email {
			return &models.ConstraintError{Field: "email"}
		}
	}
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.PasswordHash != nil {
		c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	}
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	return &c
}
