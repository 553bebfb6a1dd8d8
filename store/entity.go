package store

import (
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
)

// Collection is the generic CRUD surface over one registered table.
// Each operation is atomic within its own collection; there are no
// transactions spanning collections.
type Collection[T any] struct {
	s     *Store
	table string
}

// NewCollection binds a collection to the table its model maps to.
func NewCollection[T any](s *Store) Collection[T] {
	c := Collection[T]{s: s}
	if s != nil && s.db != nil {
		var model T
		if name, err := s.tableName(&model); err == nil {
			c.table = name
		}
	}
	return c
}

func (c Collection[T]) guard() error {
	if c.s == nil || c.s.db == nil || !c.s.ready {
		return ErrNotReady
	}
	if c.table == "" || !c.s.hasTable(c.table) {
		return fmt.Errorf("%w: %q", ErrSchema, c.table)
	}
	return nil
}

// Put inserts or updates the record, assigning an identifier when absent,
// and returns the record's identifier. Writes persist immediately.
func (c Collection[T]) Put(rec *T) (uint, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}
	if err := c.s.db.Save(rec).Error; err != nil {
		return 0, err
	}
	return idOf(rec), nil
}

// GetByID returns the record, or nil when it does not exist.
func (c Collection[T]) GetByID(id uint) (*T, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var out T
	if err := c.s.db.First(&out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// First returns the first record matching the condition, or nil. Used for
// natural-key lookups such as username.
func (c Collection[T]) First(query string, args ...any) (*T, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var out T
	if err := c.s.db.Where(query, args...).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// Where returns all records matching the condition.
func (c Collection[T]) Where(query string, args ...any) ([]T, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var out []T
	err := c.s.db.Where(query, args...).Find(&out).Error
	return out, err
}

// All returns every record of the collection.
func (c Collection[T]) All() ([]T, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var out []T
	err := c.s.db.Find(&out).Error
	return out, err
}

// Remove deletes by identifier. Deleting a missing record is not an error.
func (c Collection[T]) Remove(id uint) error {
	if err := c.guard(); err != nil {
		return err
	}
	var model T
	return c.s.db.Delete(&model, id).Error
}

func idOf(rec any) uint {
	v := reflect.Indirect(reflect.ValueOf(rec)).FieldByName("ID")
	if v.IsValid() && v.CanUint() {
		return uint(v.Uint())
	}
	return 0
}
