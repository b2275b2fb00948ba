package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesWrappedCopies(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("placing order: %w", Wrap(ErrDiscountCodeUsed, cause))

	assert.ErrorIs(t, err, ErrDiscountCodeUsed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDiscountCodeInvalid)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindBusinessRule, kind)
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestMapPgError(t *testing.T) {
	type testCase struct {
		name string
		in   error
		want error
	}

	uniqueErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	otherErr := &pgconn.PgError{Code: "40001"}

	tests := []testCase{
		{name: "unique violation", in: uniqueErr, want: ErrConflict},
		{name: "no rows", in: sql.ErrNoRows, want: ErrNotFound},
		{name: "no data found", in: &pgconn.PgError{Code: "P0002"}, want: ErrNotFound},
		{name: "passthrough", in: otherErr, want: otherErr},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := MapPgError(testCase.in)
			assert.ErrorIs(t, got, testCase.want)
		})
	}

	assert.Nil(t, MapPgError(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(Wrap(ErrConflict, nil)))
	assert.False(t, IsUniqueViolation(errors.New("nope")))
}

func TestGetDetailForLogging(t *testing.T) {
	root := errors.New("connection reset")
	err := fmt.Errorf("outer: %w", TransactionFailure(root))

	assert.Equal(t, "connection reset", GetDetailForLogging(err))
	assert.Equal(t, "", GetDetailForLogging(nil))
}
