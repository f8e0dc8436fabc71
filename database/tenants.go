package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/blogem/vendorflow/metrics"
)

var schemaNamePattern = regexp.MustCompile(`^[a-z0-9_]{1,63}$`)

// ErrInvalidSchema is returned for schema names that cannot name a tenant partition
var ErrInvalidSchema = errors.New("invalid tenant schema name")

// TenantPool lazily opens and caches one database per tenant schema.
// Each tenant lives in <dir>/<schema>.db.
type TenantPool struct {
	dir string

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// NewTenantPool creates a pool rooted at dir
func NewTenantPool(dir string) *TenantPool {
	return &TenantPool{
		dir: dir,
		dbs: make(map[string]*sql.DB),
	}
}

// Get returns the database for schema, creating and migrating it on first use
func (p *TenantPool) Get(schema string) (*sql.DB, error) {
	if !schemaNamePattern.MatchString(schema) || schema == "public" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSchema, schema)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.dbs[schema]; ok {
		return db, nil
	}

	db, err := InitializeTenantDatabase(filepath.Join(p.dir, schema+".db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open tenant %s: %w", schema, err)
	}

	p.dbs[schema] = db
	metrics.OpenTenantDatabases.Set(float64(len(p.dbs)))
	logrus.WithField("tenant", schema).Info("tenant database opened")
	return db, nil
}

// Close closes every cached tenant database
func (p *TenantPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for schema, db := range p.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close tenant %s: %w", schema, err))
		}
		delete(p.dbs, schema)
	}
	metrics.OpenTenantDatabases.Set(0)
	return errors.Join(errs...)
}
