// Package record defines the error kinds shared by the record services and
// maps storage-engine constraint failures onto them. It also builds the
// search patterns the services use.
package record

import (
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity matches any *IntegrityError via errors.Is.
	ErrIntegrity = errors.New("integrity violation")
)

// NotFoundError reports that no record of Entity exists with ID.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound returns a *NotFoundError for entity and id.
func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IntegrityError reports that the store rejected a write because it would
// break a uniqueness or referential constraint, or found the data already
// inconsistent.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: integrity violation: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// Integrity wraps err as an *IntegrityError for op.
func Integrity(op string, err error) error {
	return &IntegrityError{Op: op, Err: err}
}

// Wrap prefixes err with op, classifying constraint failures as an
// *IntegrityError. Errors that already carry a kind pass through.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrIntegrity) {
		return err
	}
	if IsConstraint(err) {
		return Integrity(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsConstraint reports whether err is a unique or foreign-key violation from
// any of the supported engines.
func IsConstraint(err error) bool {
	return IsUniqueViolation(err) || IsForeignKeyViolation(err)
}

// IsUniqueViolation reports whether err is a duplicate-key failure.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err is a referential-integrity failure.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1451 || me.Number == 1452
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23503"
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// sqliteCode extracts the extended result code from a sqlite3 error, which
// the driver returns by value but wrappers sometimes hold by pointer.
func sqliteCode(err error) (sqlite3.ErrNoExtended, bool) {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode, true
	}
	var sp *sqlite3.Error
	if errors.As(err, &sp) && sp != nil {
		return sp.ExtendedCode, true
	}
	return 0, false
}
