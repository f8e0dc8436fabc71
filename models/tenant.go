package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicSchema is the schema name reserved for the shared partition
const PublicSchema = "public"

const maxSchemaNameLength = 63

var schemaNameInvalidChars = regexp.MustCompile(`[^a-z0-9_]`)

// Client is a tenant organisation with its own data partition
type Client struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	SchemaName string    `json:"schema_name" db:"schema_name"`
	UserLimit  int       `json:"user_limit" db:"user_limit"`
	BrandColor string    `json:"brand_color,omitempty" db:"brand_color"`
	CreatedOn  time.Time `json:"created_on" db:"created_on"`
}

func (c *Client) String() string {
	return c.Name + " (" + c.SchemaName + ")"
}

// Domain maps a bare host name onto a client
type Domain struct {
	ID        int64     `json:"id" db:"id"`
	Domain    string    `json:"domain" db:"domain"`
	ClientID  uuid.UUID `json:"client_id" db:"client_id"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
}

// Role is a membership role within a tenant
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

var roleRank = map[Role]int{
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// Rank orders roles; unknown roles rank 0
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether r is the same as or above min
func (r Role) AtLeast(min Role) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}

// IsValid returns true for OWNER, ADMIN and MEMBER
func (r Role) IsValid() bool {
	return r.Rank() > 0
}

// Label returns the human readable name
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleAdmin:
		return "Admin"
	case RoleMember:
		return "Member"
	}
	return string(r)
}

// Membership links a user to a client with a role
type Membership struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ClientID  uuid.UUID `json:"client_id" db:"client_id"`
	Role      Role      `json:"role" db:"role"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	UserEmail string `json:"user_email,omitempty" db:"-"`
	UserName  string `json:"user_name,omitempty" db:"-"`
}

// NormalizeSchemaName turns a subdomain into a safe partition name
func NormalizeSchemaName(subdomain string) string {
	s := strings.ToLower(strings.TrimSpace(subdomain))
	s = schemaNameInvalidChars.ReplaceAllString(s, "_")
	if s == PublicSchema {
		s = "public_org"
	}
	if len(s) > maxSchemaNameLength {
		s = s[:maxSchemaNameLength]
	}
	if s == "" {
		return "org"
	}
	return s
}

// TenantDomain builds the bare host for a subdomain, e.g. "acme.localhost"
func TenantDomain(subdomain, baseDomain string) string {
	sub := strings.ToLower(strings.TrimSpace(subdomain))
	base := strings.TrimSpace(baseDomain)
	if sub == "" {
		return base
	}
	return sub + "." + base
}

// SignupForm represents the organisation sign-up form
type SignupForm struct {
	OrgName   string `validate:"required,max=200"`
	Subdomain string `validate:"required,max=63,slug"`
}

// Normalize trims user input
func (f *SignupForm) Normalize() {
	f.OrgName = strings.TrimSpace(f.OrgName)
	f.Subdomain = strings.ToLower(strings.TrimSpace(f.Subdomain))
}

// Validate validates the sign-up form
func (f *SignupForm) Validate() ValidationErrors {
	f.Normalize()
	return validateStruct(f, map[string]string{
		"OrgName":   "org_name",
		"Subdomain": "subdomain",
	})
}

// MemberForm represents the add-member form
type MemberForm struct {
	Email string `validate:"required,email,max=255"`
	Role  Role   `validate:"required,oneof=OWNER ADMIN MEMBER"`
}

// Validate validates the add-member form
func (f *MemberForm) Validate() ValidationErrors {
	f.Email = strings.TrimSpace(f.Email)
	f.Role = Role(strings.ToUpper(strings.TrimSpace(string(f.Role))))
	return validateStruct(f, map[string]string{
		"Email": "email",
		"Role":  "role",
	})
}
