package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Fatal("nil error is not a violation")
	}
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "users_email_key"`)) {
		t.Fatal("expected postgres duplicate key to match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")) {
		t.Fatal("expected sqlite unique failure to match")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Fatal("unrelated error should not match")
	}
}

func TestIsUniqueViolationNamedConstraint(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "payments_transaction_id_key"`)
	if !IsUniqueViolation(err, "payments_transaction_id_key") {
		t.Fatal("expected named constraint to match")
	}
	if IsUniqueViolation(err, "users_email_key") {
		t.Fatal("different constraint name should not match")
	}
}
