package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/metrics"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
)

var (
	// ErrUserLimitReached is returned when a tenant has no free seats
	ErrUserLimitReached = errors.New("user limit reached")
	// ErrSubdomainTaken is returned when signing up for a subdomain owned by someone else
	ErrSubdomainTaken = errors.New("subdomain is already taken")
	// ErrNoDomain is returned for a tenant without any domain
	ErrNoDomain = errors.New("no domain configured for tenant")
	// ErrUnknownHost is returned when a host maps to no tenant
	ErrUnknownHost = errors.New("unknown host")
)

// TenantDatabases opens tenant partitions by schema name
type TenantDatabases interface {
	Get(schema string) (*sql.DB, error)
}

// TenancyService interface defines tenant provisioning and membership logic
type TenancyService interface {
	Provision(ctx context.Context, orgName, subdomain string) (*models.Client, *models.Domain, bool, error)
	SignUp(ctx context.Context, user *models.User, form *models.SignupForm) (*models.Client, *models.Domain, error)
	EnsureOwnerMembership(ctx context.Context, user *models.User, client *models.Client) (*models.Membership, error)
	PrimaryDomain(ctx context.Context, client *models.Client) (*models.Domain, error)
	ResolveHost(ctx context.Context, host string) (*models.Client, error)
	Database(client *models.Client) (*sql.DB, error)
	MembershipFor(ctx context.Context, user *models.User, client *models.Client) (*models.Membership, error)
	Members(ctx context.Context, client *models.Client) ([]models.Membership, error)
	AddMember(ctx context.Context, client *models.Client, form *models.MemberForm) (*models.Membership, error)
	Organisations(ctx context.Context, user *models.User) ([]Organisation, error)
	RecentActivity(ctx context.Context, client *models.Client, limit int) ([]models.AuditLogEntry, error)
	PostLoginURL(ctx context.Context, user *models.User) (string, error)
	TenantURL(host, path string) string
	PublicURL(path string) string
}

// Organisation is a tenant the user belongs to, with a link to its home
type Organisation struct {
	Client models.Client
	Role   models.Role
	URL    string
}

type tenancyService struct {
	cfg            *config.Config
	clientRepo     repositories.ClientRepository
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	auditRepo      repositories.AuditRepository
	tenants        TenantDatabases
}

// NewTenancyService creates a new tenancy service
func NewTenancyService(
	cfg *config.Config,
	clientRepo repositories.ClientRepository,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	auditRepo repositories.AuditRepository,
	tenants TenantDatabases,
) TenancyService {
	return &tenancyService{
		cfg:            cfg,
		clientRepo:     clientRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
		tenants:        tenants,
	}
}

// Provision creates or reuses the tenant for a subdomain and makes sure its
// partition and primary domain exist. The bool reports a new client.
func (s *tenancyService) Provision(ctx context.Context, orgName, subdomain string) (*models.Client, *models.Domain, bool, error) {
	schema := models.NormalizeSchemaName(subdomain)

	created := false
	client, err := s.clientRepo.GetBySchema(ctx, schema)
	if errors.Is(err, repositories.ErrNotFound) {
		client = &models.Client{Name: orgName, SchemaName: schema}
		if err := s.clientRepo.Create(ctx, client); err != nil {
			return nil, nil, false, err
		}
		created = true
	} else if err != nil {
		return nil, nil, false, err
	}

	// Opening the partition runs its migrations
	if _, err := s.tenants.Get(client.SchemaName); err != nil {
		return nil, nil, false, err
	}

	host := models.TenantDomain(subdomain, s.cfg.BaseDomain)
	domain, err := s.clientRepo.GetDomain(ctx, host)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		// A different subdomain normalised onto an existing schema. Only a
		// client left without any domain may get one here.
		if !created {
			existing, err := s.clientRepo.ListDomains(ctx, client.ID)
			if err != nil {
				return nil, nil, false, err
			}
			if len(existing) > 0 {
				return nil, nil, false, fmt.Errorf("%w: %s", ErrSubdomainTaken, host)
			}
		}
		domain = &models.Domain{Domain: host, ClientID: client.ID, IsPrimary: true}
		if err := s.clientRepo.CreateDomain(ctx, domain); err != nil {
			return nil, nil, false, err
		}
	case err != nil:
		return nil, nil, false, err
	case domain.ClientID != client.ID:
		return nil, nil, false, fmt.Errorf("%w: %s", ErrSubdomainTaken, host)
	}

	if created {
		metrics.TenantsProvisionedTotal.Inc()
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"tenant": client.SchemaName,
			"domain": domain.Domain,
		}).Info("tenant provisioned")
	}

	return client, domain, created, nil
}

// SignUp provisions an organisation for the user and makes them its owner.
// Joining an existing organisation this way is only allowed for its members.
func (s *tenancyService) SignUp(ctx context.Context, user *models.User, form *models.SignupForm) (*models.Client, *models.Domain, error) {
	if ve := form.Validate(); ve.HasErrors() {
		return nil, nil, &FormError{Errors: ve}
	}

	client, domain, created, err := s.Provision(ctx, form.OrgName, form.Subdomain)
	if err != nil {
		return nil, nil, err
	}

	if !created {
		if _, err := s.MembershipFor(ctx, user, client); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: %s", ErrSubdomainTaken, form.Subdomain)
			}
			return nil, nil, err
		}
		return client, domain, nil
	}

	if _, err := s.EnsureOwnerMembership(ctx, user, client); err != nil {
		return nil, nil, err
	}
	return client, domain, nil
}

// EnsureOwnerMembership returns the user's membership, creating an owner one if missing
func (s *tenancyService) EnsureOwnerMembership(ctx context.Context, user *models.User, client *models.Client) (*models.Membership, error) {
	m, err := s.membershipRepo.Get(ctx, user.ID, client.ID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	m = &models.Membership{
		UserID:    user.ID,
		ClientID:  client.ID,
		Role:      models.RoleOwner,
		IsActive:  true,
		UserEmail: user.Email,
		UserName:  user.Name,
	}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// PrimaryDomain returns the client's primary domain, else any of its domains
func (s *tenancyService) PrimaryDomain(ctx context.Context, client *models.Client) (*models.Domain, error) {
	domains, err := s.clientRepo.ListDomains(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDomain, client.SchemaName)
	}
	// ListDomains orders primary first
	return &domains[0], nil
}

// ResolveHost maps a request host onto a tenant. The base domain resolves to
// nil, which means the public site.
func (s *tenancyService) ResolveHost(ctx context.Context, host string) (*models.Client, error) {
	host = bareHost(host)
	if host == strings.ToLower(s.cfg.BaseDomain) {
		return nil, nil
	}

	domain, err := s.clientRepo.GetDomain(ctx, host)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHost, host)
	}
	if err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, domain.ClientID)
}

// Database opens the tenant's partition
func (s *tenancyService) Database(client *models.Client) (*sql.DB, error) {
	return s.tenants.Get(client.SchemaName)
}

// MembershipFor returns the user's membership in the client
func (s *tenancyService) MembershipFor(ctx context.Context, user *models.User, client *models.Client) (*models.Membership, error) {
	return s.membershipRepo.Get(ctx, user.ID, client.ID)
}

// Members lists every membership of the client
func (s *tenancyService) Members(ctx context.Context, client *models.Client) ([]models.Membership, error) {
	return s.membershipRepo.ListForClient(ctx, client.ID)
}

// AddMember gives an existing user a role in the client, within its user limit
func (s *tenancyService) AddMember(ctx context.Context, client *models.Client, form *models.MemberForm) (*models.Membership, error) {
	if ve := form.Validate(); ve.HasErrors() {
		return nil, &FormError{Errors: ve}
	}

	user, err := s.userRepo.GetByEmail(ctx, form.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &FormError{Errors: models.ValidationErrors{
			{Field: "email", Message: "no user with this email has signed in yet"},
		}}
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.membershipRepo.Get(ctx, user.ID, client.ID); err == nil {
		return nil, &FormError{Errors: models.ValidationErrors{
			{Field: "email", Message: "user is already a member"},
		}}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	count, err := s.membershipRepo.CountActive(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if client.UserLimit > 0 && count >= client.UserLimit {
		return nil, fmt.Errorf("%w: %d of %d seats used", ErrUserLimitReached, count, client.UserLimit)
	}

	m := &models.Membership{
		UserID:    user.ID,
		ClientID:  client.ID,
		Role:      form.Role,
		IsActive:  true,
		UserEmail: user.Email,
		UserName:  user.Name,
	}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"tenant": client.SchemaName,
		"member": user.Email,
		"role":   m.Role,
	}).Info("member added")

	return m, nil
}

// Organisations lists the user's active organisations, oldest membership first
func (s *tenancyService) Organisations(ctx context.Context, user *models.User) ([]Organisation, error) {
	memberships, err := s.membershipRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	orgs := make([]Organisation, 0, len(memberships))
	for _, m := range memberships {
		client, err := s.clientRepo.GetByID(ctx, m.ClientID)
		if err != nil {
			return nil, err
		}
		org := Organisation{Client: *client, Role: m.Role}
		domain, err := s.PrimaryDomain(ctx, client)
		switch {
		case err == nil:
			org.URL = s.TenantURL(domain.Domain, "/")
		case !errors.Is(err, ErrNoDomain):
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// RecentActivity returns the latest audited changes made on the client's host
func (s *tenancyService) RecentActivity(ctx context.Context, client *models.Client, limit int) ([]models.AuditLogEntry, error) {
	return s.auditRepo.ListRecent(ctx, client.SchemaName, limit)
}

// PostLoginURL returns the home of the user's first organisation, or "" when
// the user has none yet
func (s *tenancyService) PostLoginURL(ctx context.Context, user *models.User) (string, error) {
	memberships, err := s.membershipRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(memberships) == 0 {
		return "", nil
	}

	client, err := s.clientRepo.GetByID(ctx, memberships[0].ClientID)
	if err != nil {
		return "", err
	}
	domain, err := s.PrimaryDomain(ctx, client)
	if err != nil {
		return "", err
	}
	return s.TenantURL(domain.Domain, "/"), nil
}

// TenantURL builds an absolute URL on a tenant host
func (s *tenancyService) TenantURL(host, path string) string {
	if s.cfg.DevPort > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(s.cfg.DevPort))
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.cfg.Scheme() + "://" + host + path
}

// PublicURL builds an absolute URL on the public host
func (s *tenancyService) PublicURL(path string) string {
	return s.TenantURL(s.cfg.BaseDomain, path)
}

// bareHost lower-cases a Host header and strips any port
func bareHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
