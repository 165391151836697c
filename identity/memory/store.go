// Package memory provides an in-process identity.Store. It is used by tests
// and by single-instance deployments that do not need durability.
package memory

import (
	"context"
	"sync"

	"github.com/kbukum/authkit/identity"
)

// Store keeps records in memory. Create checks and inserts under one lock so
// uniqueness holds across concurrent registrations.
type Store struct {
	mu          sync.RWMutex
	spec        identity.Spec
	provisioned bool
	records     map[string]*identity.Record
	// index[field][value] -> record id
	index map[string]map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithUnprovisioned starts the store without a schema; Exists reports false
// until Provision is called.
func WithUnprovisioned() Option {
	return func(s *Store) { s.provisioned = false }
}

// New returns a provisioned, empty store for spec.
func New(spec identity.Spec, opts ...Option) *Store {
	s := &Store{
		spec:        spec,
		provisioned: true,
		records:     make(map[string]*identity.Record),
		index:       make(map[string]map[string]string, spec.Len()),
	}
	for _, f := range spec.Fields() {
		s.index[f] = make(map[string]string)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provision marks the schema as present.
func (s *Store) Provision(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.provisioned = true
	s.mu.Unlock()
	return nil
}

// Exists implements identity.Store.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provisioned, nil
}

// FindByField implements identity.Store.
func (s *Store) FindByField(ctx context.Context, field, value string) (*identity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.provisioned {
		return nil, identity.ErrSchemaAbsent
	}
	idx, ok := s.index[field]
	if !ok {
		return nil, identity.ErrUnknownField
	}
	id, ok := idx[value]
	if !ok {
		return nil, nil
	}
	return s.records[id].Clone(), nil
}

// Create implements identity.Store.
func (s *Store) Create(ctx context.Context, rec *identity.Record) (*identity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.provisioned {
		return nil, identity.ErrSchemaAbsent
	}
	for _, f := range s.spec.Fields() {
		if _, taken := s.index[f][rec.Identities[f]]; taken {
			return nil, &identity.ConflictError{Field: f}
		}
	}

	stored := rec.Clone()
	if stored.ID == "" {
		stored.ID = identity.NewID()
	}
	s.records[stored.ID] = stored
	for _, f := range s.spec.Fields() {
		s.index[f][stored.Identities[f]] = stored.ID
	}
	return stored.Clone(), nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ identity.Store = (*Store)(nil)
