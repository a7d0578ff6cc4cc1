package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "ux_assignments_active_item"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic unique violation match")
	}
	if !IsUniqueViolation(err, "ux_assignments_active_item") {
		t.Fatal("expected named constraint match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("did not expect mismatch to report true")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
}

func TestIsSerializationFailure(t *testing.T) {
	pgx := &pgconn.PgError{Code: "40001"}
	if !IsSerializationFailure(fmt.Errorf("tx failed: %w", pgx)) {
		t.Fatal("expected pgx serialization failure to match")
	}
	deadlock := &pq.Error{Code: "40P01"}
	if !IsSerializationFailure(deadlock) {
		t.Fatal("expected pq deadlock to match")
	}
	if IsSerializationFailure(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not retryable")
	}
	if IsSerializationFailure(errors.New("plain")) {
		t.Fatal("plain error is not retryable")
	}
}
