// Package repository is the storage gateway: the only place allowed to talk
// to the database. It maps the in-memory entities onto the relational schema
// and hides the differences between the three supported SQL backends behind
// one sqlx-based surface.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"emberveil_backend/model"
)

// Supported backends. The value doubles as the config key.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// driverNames maps the config driver to the registered database/sql driver.
var driverNames = map[string]string{
	DriverMySQL:    "mysql",
	DriverPostgres: "pgx",
	DriverSQLite:   "sqlite",
}

type Storage struct {
	DB     *sqlx.DB
	driver string
}

func New(driver, dsn string) (*Storage, error) {
	name, ok := driverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite allows a single writer; one connection also keeps
		// in-memory databases alive for the whole test run.
		db.SetMaxOpenConns(1)
	}

	return &Storage{DB: db, driver: driver}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Driver() string {
	return s.driver
}

// WithUnitOfWork runs fn inside one transaction: everything fn issues
// through q applies atomically, and an error from fn rolls the whole group
// back. The transaction is scoped to this call alone; concurrent gateway
// operations keep running against the pool and can never join it.
func (s *Storage) WithUnitOfWork(fn func(q sqlx.Ext) error) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("storage: rollback: %w", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// inUnitOfWork runs fn against the caller's open unit of work when q is
// non-nil, and inside a fresh one otherwise. Multi-statement operations use
// it so they stay atomic on their own but can still join a larger group.
func (s *Storage) inUnitOfWork(q sqlx.Ext, fn func(q sqlx.Ext) error) error {
	if q != nil {
		return fn(q)
	}
	return s.WithUnitOfWork(fn)
}

// rebind rewrites ? placeholders into the dialect's bindvar form, which is
// what lets every query in this package be written once for all backends.
func (s *Storage) rebind(query string) string {
	return s.DB.Rebind(query)
}

// insertID executes an INSERT and reports the generated key. PostgreSQL has
// no LastInsertId, so the query grows a RETURNING clause there.
func (s *Storage) insertID(q sqlx.Ext, query string, args ...interface{}) (int, error) {
	if s.driver == DriverPostgres {
		var id int
		if err := sqlx.Get(q, &id, s.rebind(query+" RETURNING id"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := q.Exec(s.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (s *Storage) valueExists(query string, args ...interface{}) (bool, error) {
	var count int
	if err := sqlx.Get(s.DB, &count, s.rebind(query), args...); err != nil {
		return false, fmt.Errorf("storage: %w", err)
	}
	return count > 0, nil
}

// get wraps sqlx.Get, translating an empty result into model.ErrNotFound.
func (s *Storage) get(dest interface{}, query string, args ...interface{}) error {
	if err := sqlx.Get(s.DB, dest, s.rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

func (s *Storage) selectAll(dest interface{}, query string, args ...interface{}) error {
	if err := sqlx.Select(s.DB, dest, s.rebind(query), args...); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}
