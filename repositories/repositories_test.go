package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/blogem/vendorflow/database"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/workflow"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := database.InitializePublicDatabase(filepath.Join(t.TempDir(), "public.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// setupTenant returns a context bound to a freshly migrated tenant partition
func setupTenant(t *testing.T, schema string) context.Context {
	pool := database.NewTenantPool(t.TempDir())
	t.Cleanup(func() { pool.Close() })

	db, err := pool.Get(schema)
	if err != nil {
		t.Fatalf("Failed to open tenant %s: %v", schema, err)
	}
	client := &models.Client{ID: uuid.New(), Name: schema, SchemaName: schema}
	return tenantctx.WithTenant(context.Background(), client, db)
}

// stepClock makes timeNow return strictly increasing instants
func stepClock(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	original := timeNow
	timeNow = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	t.Cleanup(func() { timeNow = original })
}

func createRequest(t *testing.T, ctx context.Context, repo RequestRepository, name string, assignee int64) *models.Request {
	t.Helper()
	creator := int64(99)
	req := &models.Request{Name: name, AssigneeID: assignee, CreatedBy: &creator}
	if err := repo.Create(ctx, req, workflow.Created(workflow.Actor{UserID: creator})); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	return req
}

func TestRequestRepository(t *testing.T) {
	stepClock(t)
	ctx := setupTenant(t, "acme")
	repo := NewRequestRepository()
	logs := NewStateLogRepository()

	req := createRequest(t, ctx, repo, "ACME Cloud", 7)
	if req.ID == 0 {
		t.Fatal("Expected request ID to be set after creation")
	}
	if req.State != workflow.StateDraft || req.Version != 1 {
		t.Errorf("Expected new request in DRAFT at version 1, got %s v%d", req.State, req.Version)
	}

	retrieved, err := repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("Failed to get request by ID: %v", err)
	}
	if retrieved.Name != "ACME Cloud" || retrieved.AssigneeID != 7 {
		t.Errorf("Unexpected request: %+v", retrieved)
	}
	if retrieved.CreatedBy == nil || *retrieved.CreatedBy != 99 {
		t.Errorf("Expected created_by 99, got %v", retrieved.CreatedBy)
	}

	history, err := logs.ListForRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("Failed to list state logs: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 creation entry, got %d", len(history))
	}
	if history[0].SourceState != nil || history[0].State != workflow.StateDraft {
		t.Errorf("Expected creation entry None -> DRAFT, got %v -> %s", history[0].SourceState, history[0].State)
	}

	// Submit then reject
	actor := workflow.Actor{UserID: 7}
	submit, err := workflow.SubmitForReview(retrieved.Subject(), actor)
	if err != nil {
		t.Fatalf("Unexpected workflow error: %v", err)
	}
	if err := repo.ApplyTransition(ctx, retrieved, submit); err != nil {
		t.Fatalf("Failed to apply submit: %v", err)
	}
	if retrieved.State != workflow.StateReview || retrieved.Version != 2 {
		t.Errorf("Expected REVIEW at version 2, got %s v%d", retrieved.State, retrieved.Version)
	}

	reject, err := workflow.Reject(retrieved.Subject(), workflow.Actor{UserID: 1, Elevated: true}, "No SOC2")
	if err != nil {
		t.Fatalf("Unexpected workflow error: %v", err)
	}
	if err := repo.ApplyTransition(ctx, retrieved, reject); err != nil {
		t.Fatalf("Failed to apply reject: %v", err)
	}

	stored, err := repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("Failed to reload request: %v", err)
	}
	if stored.State != workflow.StateRejected || stored.RejectReason != "No SOC2" {
		t.Errorf("Expected REJECTED with reason, got %s %q", stored.State, stored.RejectReason)
	}

	history, err = logs.ListForRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("Failed to list state logs: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 log entries, got %d", len(history))
	}
	// Most recent first
	if history[0].State != workflow.StateRejected || history[2].State != workflow.StateDraft {
		t.Errorf("Unexpected log order: %s, %s, %s", history[0].State, history[1].State, history[2].State)
	}
	if history[0].Description != "Rejected: No SOC2" {
		t.Errorf("Unexpected description %q", history[0].Description)
	}
	if history[0].SourceState == nil || *history[0].SourceState != workflow.StateReview {
		t.Errorf("Expected reject entry to come from REVIEW")
	}

	// Missing request
	_, err = repo.GetByID(ctx, 12345)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("Expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestRepository_StaleVersionWritesNothing(t *testing.T) {
	ctx := setupTenant(t, "acme")
	repo := NewRequestRepository()
	logs := NewStateLogRepository()

	req := createRequest(t, ctx, repo, "Vendor", 7)

	first, _ := repo.GetByID(ctx, req.ID)
	second, _ := repo.GetByID(ctx, req.ID)

	submit, _ := workflow.SubmitForReview(first.Subject(), workflow.Actor{UserID: 7})
	if err := repo.ApplyTransition(ctx, first, submit); err != nil {
		t.Fatalf("Failed to apply first transition: %v", err)
	}

	// second still holds version 1
	err := repo.ApplyTransition(ctx, second, submit)
	if !errors.Is(err, ErrStaleRequest) {
		t.Fatalf("Expected ErrStaleRequest, got %v", err)
	}
	if second.State != workflow.StateDraft {
		t.Errorf("Stale request must not be mutated, got %s", second.State)
	}

	history, _ := logs.ListForRequest(ctx, req.ID)
	if len(history) != 2 {
		t.Errorf("Expected 2 log entries after one successful transition, got %d", len(history))
	}
}

func TestRequestRepository_ListAndCount(t *testing.T) {
	stepClock(t)
	ctx := setupTenant(t, "acme")
	repo := NewRequestRepository()

	a := createRequest(t, ctx, repo, "A", 1)
	createRequest(t, ctx, repo, "B", 2)
	c := createRequest(t, ctx, repo, "C", 1)

	submit, _ := workflow.SubmitForReview(a.Subject(), workflow.Actor{UserID: 1})
	if err := repo.ApplyTransition(ctx, a, submit); err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	all, err := repo.List(ctx, models.RequestFilter{})
	if err != nil {
		t.Fatalf("Failed to list requests: %v", err)
	}
	if len(all) != 3 || all[0].Name != "C" {
		t.Errorf("Expected 3 requests newest first, got %d starting with %q", len(all), all[0].Name)
	}

	drafts, _ := repo.List(ctx, models.RequestFilter{State: workflow.StateDraft})
	if len(drafts) != 2 {
		t.Errorf("Expected 2 drafts, got %d", len(drafts))
	}

	mine, _ := repo.List(ctx, models.RequestFilter{AssigneeID: 1})
	if len(mine) != 2 || mine[0].ID != c.ID {
		t.Errorf("Expected 2 requests assigned to user 1, got %d", len(mine))
	}

	counts, err := repo.CountByState(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if counts[workflow.StateDraft] != 2 || counts[workflow.StateReview] != 1 || counts[workflow.StateApproved] != 0 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}

func TestRequestRepository_PartitionsAreIsolated(t *testing.T) {
	pool := database.NewTenantPool(t.TempDir())
	defer pool.Close()

	acmeDB, _ := pool.Get("acme")
	globexDB, _ := pool.Get("globex")
	acme := tenantctx.WithTenant(context.Background(), &models.Client{SchemaName: "acme"}, acmeDB)
	globex := tenantctx.WithTenant(context.Background(), &models.Client{SchemaName: "globex"}, globexDB)

	repo := NewRequestRepository()
	createRequest(t, acme, repo, "Only in acme", 1)

	requests, err := repo.List(globex, models.RequestFilter{})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("Expected globex to see no acme requests, got %d", len(requests))
	}
}

func TestRequestRepository_NoTenant(t *testing.T) {
	_, err := NewRequestRepository().List(context.Background(), models.RequestFilter{})
	if !errors.Is(err, tenantctx.ErrNoTenant) {
		t.Errorf("Expected ErrNoTenant, got %v", err)
	}
}

func TestStateLogRepository_Append(t *testing.T) {
	stepClock(t)
	ctx := setupTenant(t, "acme")
	repo := NewRequestRepository()
	logs := NewStateLogRepository()

	req := createRequest(t, ctx, repo, "ACME Cloud", 7)

	// A system entry with no actor gets a timestamp and an ID
	entry := &models.StateLogEntry{RequestID: req.ID, State: workflow.StateDraft, Description: "Imported"}
	if err := logs.Append(ctx, entry); err != nil {
		t.Fatalf("Failed to append state log: %v", err)
	}
	if entry.ID == 0 || entry.Timestamp.IsZero() {
		t.Errorf("Expected ID and timestamp to be set, got %+v", entry)
	}

	history, err := logs.ListForRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("Failed to list state logs: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(history))
	}
	if history[0].Description != "Imported" || history[0].ActorID != nil {
		t.Errorf("Expected the appended system entry first, got %+v", history[0])
	}

	if err := logs.Append(context.Background(), entry); !errors.Is(err, tenantctx.ErrNoTenant) {
		t.Errorf("Expected ErrNoTenant without a tenant, got %v", err)
	}
}

func TestApplyTransition_RollsBackWhenLogInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	ctx := tenantctx.WithTenant(context.Background(), &models.Client{SchemaName: "acme"}, db)
	req := &models.Request{ID: 5, State: workflow.StateDraft, AssigneeID: 7, Version: 3}
	submit, _ := workflow.SubmitForReview(req.Subject(), workflow.Actor{UserID: 7})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests")).
		WithArgs(workflow.StateReview, "", sqlmock.AnyArg(), int64(5), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO state_logs")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = NewRequestRepository().ApplyTransition(ctx, req, submit)
	if err == nil {
		t.Fatal("Expected error when the log insert fails")
	}
	if req.State != workflow.StateDraft || req.Version != 3 {
		t.Errorf("Request must be untouched after rollback, got %s v%d", req.State, req.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestApplyTransition_ZeroRowsIsStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	ctx := tenantctx.WithTenant(context.Background(), &models.Client{SchemaName: "acme"}, db)
	req := &models.Request{ID: 5, State: workflow.StateReview, AssigneeID: 7, Version: 2}
	approve, _ := workflow.Approve(req.Subject(), workflow.Actor{UserID: 1, Elevated: true})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = NewRequestRepository().ApplyTransition(ctx, req, approve)
	if !errors.Is(err, ErrStaleRequest) {
		t.Errorf("Expected ErrStaleRequest, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestClientRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewClientRepository(db)

	client := &models.Client{Name: "ACME Corp", SchemaName: "acme"}
	if err := repo.Create(ctx, client); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if client.ID == uuid.Nil {
		t.Error("Expected client ID to be assigned")
	}
	if client.UserLimit != 5 {
		t.Errorf("Expected default user limit 5, got %d", client.UserLimit)
	}

	bySchema, err := repo.GetBySchema(ctx, "acme")
	if err != nil {
		t.Fatalf("Failed to get client by schema: %v", err)
	}
	if bySchema.ID != client.ID {
		t.Errorf("Expected ID %s, got %s", client.ID, bySchema.ID)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown client, got %v", err)
	}

	alias := &models.Domain{Domain: "acme.example.com", ClientID: client.ID}
	primary := &models.Domain{Domain: "acme.localhost", ClientID: client.ID, IsPrimary: true}
	for _, d := range []*models.Domain{alias, primary} {
		if err := repo.CreateDomain(ctx, d); err != nil {
			t.Fatalf("Failed to create domain %s: %v", d.Domain, err)
		}
	}

	domain, err := repo.GetDomain(ctx, "acme.localhost")
	if err != nil {
		t.Fatalf("Failed to get domain: %v", err)
	}
	if domain.ClientID != client.ID || !domain.IsPrimary {
		t.Errorf("Unexpected domain: %+v", domain)
	}

	domains, err := repo.ListDomains(ctx, client.ID)
	if err != nil {
		t.Fatalf("Failed to list domains: %v", err)
	}
	if len(domains) != 2 || domains[0].Domain != "acme.localhost" {
		t.Errorf("Expected primary domain first, got %+v", domains)
	}

	if err := repo.CreateDomain(ctx, &models.Domain{Domain: "acme.localhost", ClientID: client.ID}); err == nil {
		t.Error("Expected duplicate domain to fail")
	}
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := &models.User{Subject: "auth|1", Email: "ann@example.com", Name: "Ann"}
	if err := repo.Upsert(ctx, user); err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Expected user ID to be set")
	}

	// Same subject refreshes the profile fields and keeps the ID
	again := &models.User{Subject: "auth|1", Email: "ann@corp.example.com", Name: "Ann B"}
	if err := repo.Upsert(ctx, again); err != nil {
		t.Fatalf("Failed to upsert existing user: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("Expected same ID %d, got %d", user.ID, again.ID)
	}

	bySubject, err := repo.GetBySubject(ctx, "auth|1")
	if err != nil {
		t.Fatalf("Failed to get user by subject: %v", err)
	}
	if bySubject.Email != "ann@corp.example.com" || bySubject.Name != "Ann B" {
		t.Errorf("Expected refreshed user, got %+v", bySubject)
	}

	byEmail, err := repo.GetByEmail(ctx, "ANN@corp.example.com")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("Expected case-insensitive email match")
	}

	// Staff flag is sticky
	staff := &models.User{Subject: "auth|1", Email: "ann@corp.example.com", IsStaff: true}
	if err := repo.Upsert(ctx, staff); err != nil {
		t.Fatalf("Failed to upsert staff user: %v", err)
	}
	plain := &models.User{Subject: "auth|1", Email: "ann@corp.example.com"}
	if err := repo.Upsert(ctx, plain); err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	if !plain.IsStaff {
		t.Error("Expected staff flag to survive a later login")
	}

	other := &models.User{Subject: "auth|2", Email: "bob@example.com"}
	if err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}

	users, err := repo.GetByIDs(ctx, []int64{user.ID, other.ID, 4242})
	if err != nil {
		t.Fatalf("Failed to get users by IDs: %v", err)
	}
	if len(users) != 2 || users[other.ID].Email != "bob@example.com" {
		t.Errorf("Unexpected users: %+v", users)
	}

	if _, err := repo.GetByID(ctx, 4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMembershipRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	clients := NewClientRepository(db)
	users := NewUserRepository(db)
	repo := NewMembershipRepository(db)

	client := &models.Client{Name: "ACME", SchemaName: "acme"}
	if err := clients.Create(ctx, client); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	owner := &models.User{Subject: "s1", Email: "owner@example.com"}
	member := &models.User{Subject: "s2", Email: "member@example.com"}
	for _, u := range []*models.User{owner, member} {
		if err := users.Upsert(ctx, u); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}

	if err := repo.Create(ctx, &models.Membership{UserID: member.ID, ClientID: client.ID, Role: models.RoleMember, IsActive: true}); err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	if err := repo.Create(ctx, &models.Membership{UserID: owner.ID, ClientID: client.ID, Role: models.RoleOwner, IsActive: true}); err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}

	// One membership per user and client
	if err := repo.Create(ctx, &models.Membership{UserID: owner.ID, ClientID: client.ID, Role: models.RoleAdmin, IsActive: true}); err == nil {
		t.Error("Expected duplicate membership to fail")
	}

	m, err := repo.Get(ctx, owner.ID, client.ID)
	if err != nil {
		t.Fatalf("Failed to get membership: %v", err)
	}
	if m.Role != models.RoleOwner || m.UserEmail != "owner@example.com" {
		t.Errorf("Unexpected membership: %+v", m)
	}

	list, err := repo.ListForClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("Failed to list memberships: %v", err)
	}
	if len(list) != 2 || list[0].Role != models.RoleOwner {
		t.Errorf("Expected owner listed first, got %+v", list)
	}

	mine, err := repo.ListForUser(ctx, member.ID)
	if err != nil {
		t.Fatalf("Failed to list user memberships: %v", err)
	}
	if len(mine) != 1 || mine[0].ClientID != client.ID {
		t.Errorf("Unexpected memberships for user: %+v", mine)
	}

	count, err := repo.CountActive(ctx, client.ID)
	if err != nil {
		t.Fatalf("Failed to count memberships: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 active memberships, got %d", count)
	}

	if _, err := repo.Get(ctx, 4242, client.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := &models.User{Subject: "s1", Email: "ann@example.com"}
	if err := NewUserRepository(db).Upsert(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	repo := NewProfileRepository(db)

	profile, err := repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.JobTitle != "" {
		t.Errorf("Expected empty profile, got %+v", profile)
	}

	profile.JobTitle = "Procurement Lead"
	profile.Country = "NL"
	if err := repo.Update(ctx, profile); err != nil {
		t.Fatalf("Failed to update profile: %v", err)
	}

	again, err := repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to reload profile: %v", err)
	}
	if again.ID != profile.ID || again.JobTitle != "Procurement Lead" || again.Country != "NL" {
		t.Errorf("Unexpected profile: %+v", again)
	}
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAuditRepository(db)

	for _, path := range []string{"/requests/new/", "/requests/1/submit/"} {
		entry := &models.AuditLogEntry{UserEmail: "ann@example.com", Tenant: "acme", Method: "POST", Path: path}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Failed to write audit entry: %v", err)
		}
	}
	if err := repo.Create(ctx, &models.AuditLogEntry{Tenant: "public", Method: "POST", Path: "/signup-org"}); err != nil {
		t.Fatalf("Failed to write audit entry: %v", err)
	}

	entries, err := repo.ListRecent(ctx, "acme", 10)
	if err != nil {
		t.Fatalf("Failed to list audit entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 acme entries, got %d", len(entries))
	}
	if entries[0].Path != "/requests/1/submit/" {
		t.Errorf("Expected newest entry first, got %s", entries[0].Path)
	}
}
