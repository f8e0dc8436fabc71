package models

import (
	"strings"
	"time"
)

// User is an authenticated person, shared across tenants
type User struct {
	ID        int64     `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	IsStaff   bool      `json:"is_staff" db:"is_staff"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DisplayName prefers the name, then the email, then the subject
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Subject
}

// Profile holds optional personal details
type Profile struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"user_id" db:"user_id"`
	JobTitle string `json:"job_title" db:"job_title"`
	Phone    string `json:"phone" db:"phone"`
	Country  string `json:"country" db:"country"`
}

// ProfileForm represents the profile settings form
type ProfileForm struct {
	JobTitle string `validate:"max=120"`
	Phone    string `validate:"max=30"`
	Country  string `validate:"max=100"`
}

// Validate validates the profile form
func (f *ProfileForm) Validate() ValidationErrors {
	f.JobTitle = strings.TrimSpace(f.JobTitle)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Country = strings.TrimSpace(f.Country)
	return validateStruct(f, map[string]string{
		"JobTitle": "job_title",
		"Phone":    "phone",
		"Country":  "country",
	})
}
