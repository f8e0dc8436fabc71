package services

import (
	"context"
	"errors"

	"github.com/blogem/vendorflow/authenticator"
	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
)

// ErrMissingSubject is returned for identity claims without a "sub"
var ErrMissingSubject = errors.New("claims have no subject")

// AccountService interface defines user account logic
type AccountService interface {
	LoginFromClaims(ctx context.Context, claims authenticator.Claims) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	Profile(ctx context.Context, user *models.User) (*models.Profile, error)
	UpdateProfile(ctx context.Context, user *models.User, form *models.ProfileForm) (*models.Profile, error)
}

type accountService struct {
	cfg         *config.Config
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

// NewAccountService creates a new account service
func NewAccountService(cfg *config.Config, userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) AccountService {
	return &accountService{
		cfg:         cfg,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// LoginFromClaims creates or refreshes the user behind a verified ID token.
// Addresses listed in STAFF_EMAILS become staff once the provider has
// verified them.
func (s *accountService) LoginFromClaims(ctx context.Context, claims authenticator.Claims) (*models.User, error) {
	subject := claims.String("sub")
	if subject == "" {
		return nil, ErrMissingSubject
	}

	email := claims.String("email")
	user := &models.User{
		Subject: subject,
		Email:   email,
		Name:    firstNonEmpty(claims.String("name"), claims.String("nickname")),
		IsStaff: claims.Bool("email_verified") && s.cfg.IsStaffEmail(email),
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithField("user", user.DisplayName()).Info("user logged in")
	return user, nil
}

// GetUser retrieves a user by ID
func (s *accountService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Profile returns the user's profile, creating an empty one on first access
func (s *accountService) Profile(ctx context.Context, user *models.User) (*models.Profile, error) {
	return s.profileRepo.GetOrCreate(ctx, user.ID)
}

// UpdateProfile validates and saves the profile form
func (s *accountService) UpdateProfile(ctx context.Context, user *models.User, form *models.ProfileForm) (*models.Profile, error) {
	if ve := form.Validate(); ve.HasErrors() {
		return nil, &FormError{Errors: ve}
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile.JobTitle = form.JobTitle
	profile.Phone = form.Phone
	profile.Country = form.Country
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
