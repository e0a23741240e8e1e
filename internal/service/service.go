package service

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/blog-service/internal/config"
	"github.com/Dan9191/blog-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the entity store the service runs against. Lookups report
// absence with models.ErrNotFound.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	CountUsers(ctx context.Context) (int64, error)

	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	GetUserPost(ctx context.Context, userID, postID int64) (*models.Post, error)
	ListPostsByUserID(ctx context.Context, userID int64) ([]*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, userID, postID int64) error
	CountPosts(ctx context.Context) (int64, error)
}

// Notifier delivers the welcome message after registration
type Notifier interface {
	SendWelcome(to, username string) error
}

// Service handles business logic
type Service struct {
	store    Store
	log      *logrus.Logger
	config   *config.Config
	notifier Notifier
	now      func() time.Time

	mail sync.WaitGroup
}

// NewService initializes a new service. notifier may be nil.
func NewService(store Store, log *logrus.Logger, cfg *config.Config, notifier Notifier) *Service {
	return &Service{store: store, log: log, config: cfg, notifier: notifier, now: time.Now}
}

// Close waits for queued welcome mail until ctx expires
func (s *Service) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mail.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Stats is a snapshot of stored entity counts
type Stats struct {
	Users int64
	Posts int64
}

// Stats counts users and posts
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return Stats{}, err
	}
	posts, err := s.store.CountPosts(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: users, Posts: posts}, nil
}
