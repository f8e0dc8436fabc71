package repositories

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned by public-partition lookups that match no row
var ErrNotFound = errors.New("not found")

var timeNow = func() time.Time {
	return time.Now().UTC()
}

// Repositories struct holds all repository interfaces
type Repositories struct {
	Clients     ClientRepository
	Users       UserRepository
	Memberships MembershipRepository
	Profiles    ProfileRepository
	Audit       AuditRepository
	Requests    RequestRepository
	StateLogs   StateLogRepository
}

// NewRepositories creates and initializes all repositories. publicDB backs
// the shared tables; tenant repositories resolve their database per call.
func NewRepositories(publicDB *sql.DB) *Repositories {
	return &Repositories{
		Clients:     NewClientRepository(publicDB),
		Users:       NewUserRepository(publicDB),
		Memberships: NewMembershipRepository(publicDB),
		Profiles:    NewProfileRepository(publicDB),
		Audit:       NewAuditRepository(publicDB),
		Requests:    NewRequestRepository(),
		StateLogs:   NewStateLogRepository(),
	}
}
