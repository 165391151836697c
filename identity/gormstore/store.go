// Package gormstore implements identity.Store on a relational table through
// gorm. It runs on the postgres and sqlite dialects.
//
// Table layout, one row per user:
//
//	id          VARCHAR(36) PRIMARY KEY
//	<field>     VARCHAR(255) NOT NULL UNIQUE   -- one per identity field
//	password    VARCHAR(255) NOT NULL          -- password hash
//	profile     TEXT                           -- JSON pass-through fields
//	created_at  TIMESTAMP NOT NULL
//
// Uniqueness of identity fields is enforced by the table's UNIQUE
// constraints; Create maps a violation to *identity.ConflictError.
package gormstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/authkit/database"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/logger"
)

const (
	colID        = "id"
	colPassword  = "password"
	colProfile   = "profile"
	colCreatedAt = "created_at"

	// DefaultTable is used when no table name is configured.
	DefaultTable = "users"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// Store is a gorm-backed identity.Store.
type Store struct {
	db    *gorm.DB
	spec  identity.Spec
	table string
	log   *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTable sets the table name. Schema-qualified names ("auth.users") are accepted.
func WithTable(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.table = name
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a store for spec on db.
func New(db *gorm.DB, spec identity.Spec, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("gormstore: nil database")
	}
	if spec.IsZero() {
		return nil, errors.New("gormstore: empty identity spec")
	}
	s := &Store{
		spec:  spec,
		table: DefaultTable,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("gormstore: invalid table name %q", s.table)
	}
	s.db = db.Session(&gorm.Session{SkipDefaultTransaction: true})
	s.log = s.log.WithComponent("gormstore").WithFields(logger.Fields("table", s.table))
	return s, nil
}

// Open returns a store on an opened database, using its configured table.
func Open(db *database.DB, spec identity.Spec, opts ...Option) (*Store, error) {
	opts = append([]Option{WithTable(db.Config().Table)}, opts...)
	return New(db.GormDB, spec, opts...)
}

// Table returns the backing table name.
func (s *Store) Table() string { return s.table }

// Exists implements identity.Store. A missing table on a reachable database
// is (false, nil); an unreachable database is an error.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s.db.WithContext(ctx).Migrator().HasTable(s.table) {
		return true, nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return false, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return false, fmt.Errorf("gormstore: check schema: %w", err)
	}
	return false, nil
}

// Provision creates the table when it does not exist.
func (s *Store) Provision(ctx context.Context) error {
	query, vars := s.createTableSQL()
	if err := s.db.WithContext(ctx).Exec(query, vars...).Error; err != nil {
		return fmt.Errorf("gormstore: provision %s: %w", s.table, err)
	}
	s.log.Info("identity table provisioned", logger.Fields("identities", s.spec.String()))
	return nil
}

func (s *Store) createTableSQL() (string, []interface{}) {
	tsType := "TIMESTAMP"
	if s.db.Dialector.Name() == "postgres" {
		tsType = "TIMESTAMPTZ"
	}

	cols := []string{"? VARCHAR(36) PRIMARY KEY"}
	vars := []interface{}{clause.Table{Name: s.table}, clause.Column{Name: colID}}
	for _, f := range s.spec.Fields() {
		cols = append(cols, "? VARCHAR(255) NOT NULL UNIQUE")
		vars = append(vars, clause.Column{Name: f})
	}
	cols = append(cols,
		"? VARCHAR(255) NOT NULL",
		"? TEXT",
		"? "+tsType+" NOT NULL",
	)
	vars = append(vars,
		clause.Column{Name: colPassword},
		clause.Column{Name: colProfile},
		clause.Column{Name: colCreatedAt},
	)
	return "CREATE TABLE IF NOT EXISTS ? (" + strings.Join(cols, ", ") + ")", vars
}

func (s *Store) columns() []string {
	cols := make([]string, 0, s.spec.Len()+4)
	cols = append(cols, colID)
	cols = append(cols, s.spec.Fields()...)
	return append(cols, colPassword, colProfile, colCreatedAt)
}

// FindByField implements identity.Store.
func (s *Store) FindByField(ctx context.Context, field, value string) (*identity.Record, error) {
	if !s.spec.Contains(field) {
		return nil, identity.ErrUnknownField
	}

	row := s.db.WithContext(ctx).
		Table(s.table).
		Select(s.columns()).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Limit(1).
		Row()

	fields := s.spec.Fields()
	idents := make([]sql.NullString, len(fields))
	var (
		id, hash, profile sql.NullString
		createdAt         sql.NullTime
	)
	dest := make([]interface{}, 0, len(fields)+4)
	dest = append(dest, &id)
	for i := range idents {
		dest = append(dest, &idents[i])
	}
	dest = append(dest, &hash, &profile, &createdAt)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, s.mapError(err)
	}

	rec := &identity.Record{
		ID:           id.String,
		Identities:   make(map[string]string, len(fields)),
		PasswordHash: hash.String,
		CreatedAt:    createdAt.Time,
	}
	for i, f := range fields {
		rec.Identities[f] = idents[i].String
	}
	if profile.Valid && profile.String != "" {
		if err := json.Unmarshal([]byte(profile.String), &rec.Profile); err != nil {
			return nil, fmt.Errorf("gormstore: decode profile of %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

// Create implements identity.Store.
func (s *Store) Create(ctx context.Context, rec *identity.Record) (*identity.Record, error) {
	stored := rec.Clone()
	if stored.ID == "" {
		stored.ID = identity.NewID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	values := map[string]interface{}{
		colID:        stored.ID,
		colPassword:  stored.PasswordHash,
		colCreatedAt: stored.CreatedAt,
		colProfile:   nil,
	}
	for _, f := range s.spec.Fields() {
		values[f] = stored.Identities[f]
	}
	if len(stored.Profile) > 0 {
		raw, err := json.Marshal(stored.Profile)
		if err != nil {
			return nil, fmt.Errorf("gormstore: encode profile: %w", err)
		}
		values[colProfile] = string(raw)
	}

	if err := s.db.WithContext(ctx).Table(s.table).Create(values).Error; err != nil {
		return nil, s.mapError(err)
	}
	return stored, nil
}

func (s *Store) mapError(err error) error {
	if v, ok := database.UniqueViolation(err); ok {
		field := v.Column
		if !s.spec.Contains(field) {
			field = ""
		}
		return &identity.ConflictError{Field: field, Err: err}
	}
	if database.IsUndefinedTable(err) {
		return fmt.Errorf("%w: %v", identity.ErrSchemaAbsent, err)
	}
	if database.IsConnectionError(err) {
		return fmt.Errorf("%w: %w", identity.ErrUnavailable, err)
	}
	return err
}

var _ identity.Store = (*Store)(nil)
