package services

import (
	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/repositories"
)

// Services holds all service instances
type Services struct {
	Requests RequestService
	Tenancy  TenancyService
	Accounts AccountService
}

// NewServices creates and initializes all service instances
func NewServices(cfg *config.Config, repos *repositories.Repositories, tenants TenantDatabases) *Services {
	return &Services{
		Requests: NewRequestService(repos.Requests, repos.StateLogs, repos.Users, repos.Memberships),
		Tenancy:  NewTenancyService(cfg, repos.Clients, repos.Users, repos.Memberships, repos.Audit, tenants),
		Accounts: NewAccountService(cfg, repos.Users, repos.Profiles),
	}
}
