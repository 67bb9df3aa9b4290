package record

import (
	"errors"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNotFound(t *testing.T) {
	err := fmt.Errorf("project: get 7: %w", NotFound("project", 7))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrIntegrity))
	assert.Contains(t, err.Error(), "project 7 not found")

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "project", nf.Entity)
	assert.Equal(t, uint(7), nf.ID)
}

func TestWrap_ConstraintFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		integrity bool
		unique    bool
	}{
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true, true},
		{"gorm foreign key", fmt.Errorf("wrapped: %w", gorm.ErrForeignKeyViolated), true, false},
		{"mysql duplicate entry", &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, true},
		{"mysql parent row", &gomysql.MySQLError{Number: 1451}, true, false},
		{"mysql child row", &gomysql.MySQLError{Number: 1452}, true, false},
		{"mysql syntax", &gomysql.MySQLError{Number: 1064}, false, false},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, true, false},
		{"postgres not null", &pgconn.PgError{Code: "23502"}, false, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true, true},
		{"sqlite fk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, true, false},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false, false},
		{"plain", errors.New("connection refused"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap("tag: create", tt.err)
			assert.Equal(t, tt.integrity, errors.Is(got, ErrIntegrity))
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			if tt.integrity {
				var ie *IntegrityError
				require.True(t, errors.As(got, &ie))
				assert.Equal(t, "tag: create", ie.Op)
			} else {
				assert.EqualError(t, got, "tag: create: "+tt.err.Error())
			}
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestIntegrity_Message(t *testing.T) {
	err := Integrity("project: update 3", errors.New("project detail missing"))
	assert.EqualError(t, err, "project: update 3: integrity violation: project detail missing")
}

func TestWrap(t *testing.T) {
	plain := errors.New("disk full")
	err := Wrap("asset: create", plain)
	assert.EqualError(t, err, "asset: create: disk full")
	assert.False(t, errors.Is(err, ErrIntegrity))

	err = Wrap("asset: create", gorm.ErrForeignKeyViolated)
	assert.True(t, errors.Is(err, ErrIntegrity))

	nf := NotFound("asset", 4)
	assert.Same(t, nf, Wrap("asset: get 4", nf))

	assert.NoError(t, Wrap("x", nil))
}
