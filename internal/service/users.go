package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/blog-service/internal/models"
)

// ListUsers returns every user
func (s *Service) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewUserViews(users), nil
}

// CreateUser creates a user with a hashed password
func (s *Service) CreateUser(ctx context.Context, p CreateUserParams) (models.UserView, error) {
	user, err := models.NewUser(p.Username, p.Email, p.Password, p.FirstName, p.LastName, p.IsAdmin)
	if err != nil {
		return models.UserView{}, err
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return models.UserView{}, err
	}

	s.log.Infof("User registered: %s", user.Username)
	s.welcome(user)
	return models.NewUserView(user), nil
}

// GetUser looks a user up by username
func (s *Service) GetUser(ctx context.Context, username string) (models.UserView, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return models.UserView{}, err
	}
	return models.NewUserView(user), nil
}

// UpdateUser replaces the supplied fields of a user. A new password is re-hashed.
func (s *Service) UpdateUser(ctx context.Context, username string, p UpdateUserParams) (models.UserView, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return models.UserView{}, err
	}

	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
	if p.IsAdmin != nil {
		user.IsAdmin = *p.IsAdmin
	}
	if p.Password != nil {
		if err := user.SetPassword(*p.Password); err != nil {
			return models.UserView{}, err
		}
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.UserView{}, err
	}

	s.log.WithField("user_id", user.ID).Infof("User updated: %s", user.Username)
	return models.NewUserView(user), nil
}

// DeleteUser removes a user and the user's posts. Deleting an absent user succeeds.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, user.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}

	s.log.WithField("user_id", user.ID).Infof("User deleted: %s", user.Username)
	return nil
}

// EnsureAdmin creates the configured bootstrap administrator when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	if s.config.AdminUsername == "" {
		return nil
	}

	_, err := s.store.GetUserByUsername(ctx, s.config.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	admin, err := models.NewUser(s.config.AdminUsername, s.config.AdminEmail, s.config.AdminPassword, "", "", true)
	if err != nil {
		return err
	}
	admin.Active = true
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	s.log.Infof("Admin user created: %s", admin.Username)
	return nil
}

func (s *Service) findUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// welcome mails a new user in the background. Delivery problems never fail
// the registration.
func (s *Service) welcome(user *models.User) {
	if s.notifier == nil {
		return
	}
	to, username := user.Email, user.Username
	s.mail.Add(1)
	go func() {
		defer s.mail.Done()
		if err := s.notifier.SendWelcome(to, username); err != nil {
			s.log.Warnf("Welcome email for %s not delivered: %v", username, err)
		}
	}()
}
