package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ListPosts returns the posts owned by username. An unknown user has no posts.
func (s *Service) ListPosts(ctx context.Context, username string) ([]models.PostView, error) {
	owner, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return []models.PostView{}, nil
	}
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPostsByUserID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	return models.NewPostViews(posts, owner)
}

// CreatePost publishes a post owned by username
func (s *Service) CreatePost(ctx context.Context, username string, p CreatePostParams) (models.PostView, error) {
	owner, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.PostView{}, fmt.Errorf("user %q: %w", username, models.ErrReference)
	}
	if err != nil {
		return models.PostView{}, err
	}

	post := &models.Post{
		UserID:  owner.ID,
		Title:   p.Title,
		Content: p.Content,
		Active:  p.Active,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return models.PostView{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": owner.ID, "post_id": post.ID}).Info("Post created")
	return models.NewPostView(post, owner)
}

// GetPost returns post id only when username owns it
func (s *Service) GetPost(ctx context.Context, username string, id int64) (models.PostView, error) {
	owner, post, err := s.findPost(ctx, username, id)
	if err != nil {
		return models.PostView{}, err
	}
	return models.NewPostView(post, owner)
}

// UpdatePost replaces the supplied fields of a post owned by username
func (s *Service) UpdatePost(ctx context.Context, username string, id int64, p UpdatePostParams) (models.PostView, error) {
	owner, post, err := s.findPost(ctx, username, id)
	if err != nil {
		return models.PostView{}, err
	}

	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Active != nil {
		post.Active = *p.Active
	}
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return models.PostView{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": owner.ID, "post_id": post.ID}).Info("Post updated")
	return models.NewPostView(post, owner)
}

// DeletePost removes a post owned by username
func (s *Service) DeletePost(ctx context.Context, username string, id int64) error {
	owner, post, err := s.findPost(ctx, username, id)
	if err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, owner.ID, post.ID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": owner.ID, "post_id": post.ID}).Info("Post deleted")
	return nil
}

// findPost resolves the owner first so a post id never leaks across users.
func (s *Service) findPost(ctx context.Context, username string, id int64) (*models.User, *models.Post, error) {
	owner, err := s.findUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.store.GetUserPost(ctx, owner.ID, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, fmt.Errorf("post %d of user %q: %w", id, username, models.ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	return owner, post, nil
}
