package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/vendorflow/models"
)

// ProfileRepository stores optional user details
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate returns the user's profile, creating an empty one on first use
func (r *profileRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Profile, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	var p models.Profile
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, job_title, phone, country
		FROM profiles
		WHERE user_id = ?
	`, userID).Scan(&p.ID, &p.UserID, &p.JobTitle, &p.Phone, &p.Country)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Update saves the editable profile fields
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET job_title = ?, phone = ?, country = ?
		WHERE user_id = ?
	`, profile.JobTitle, profile.Phone, profile.Country, profile.UserID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile of user %d: %w", profile.UserID, ErrNotFound)
	}
	return nil
}
