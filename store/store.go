// Package store is the embedded persistence layer: a versioned sqlite
// database with additive schema migrations and generic collection CRUD.
package store

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrStorageUnavailable means the backing database could not be opened.
	// Fatal at startup; nothing works without the store.
	ErrStorageUnavailable = errors.New("persistent storage unavailable")
	// ErrNotReady means an operation ran before initialization completed.
	ErrNotReady = errors.New("store not initialized")
	// ErrSchema means an unknown collection was referenced.
	ErrSchema = errors.New("unknown collection")
)

type Config struct {
	Path string // sqlite file path, e.g. "data/vitatrack.db"
}

// Store owns the database handle and the set of registered collections.
// Construct it once via Open (or OpenShared) and inject it into services.
type Store struct {
	db     *gorm.DB
	tables map[string]struct{}
	ready  bool
}

// Open opens (creating if needed) the database and applies any pending
// schema migrations. Migrations are additive only.
func Open(cfg Config) (*Store, error) {
	return open(cfg, migrations)
}

func open(cfg Config, steps []migration) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s := &Store{db: db, tables: make(map[string]struct{})}
	if err := s.migrate(steps); err != nil {
		return nil, err
	}
	s.ready = true
	return s, nil
}

var (
	sharedOnce sync.Once
	shared     *Store
	sharedErr  error
)

// OpenShared memoizes a single process-wide handle. Concurrent callers share
// the in-flight open instead of racing separate ones.
func OpenShared(cfg Config) (*Store, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = Open(cfg)
	})
	return shared, sharedErr
}

// DB exposes the underlying gorm handle for aggregate queries that do not
// fit the generic collection surface.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) hasTable(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// tableName resolves the table a model maps to.
func (s *Store) tableName(model any) (string, error) {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return stmt.Schema.Table, nil
}
