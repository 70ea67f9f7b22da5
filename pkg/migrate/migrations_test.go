package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MyResellApp/MyResell/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestSubscriptionMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_subscriptions_table.sql")

	checks := []string{
		"CREATE TYPE subscription_status AS ENUM",
		"CREATE TABLE IF NOT EXISTS subscriptions",
		"CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id",
		"CREATE INDEX IF NOT EXISTS idx_subscriptions_created_at",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentsMigrationEnforcesUniqueTransaction(t *testing.T) {
	content := readMigration(t, "*_create_payments_table.sql")

	checks := []string{
		"CREATE TYPE payment_status AS ENUM",
		"CREATE TYPE payment_method AS ENUM",
		"CREATE TABLE IF NOT EXISTS payments",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_transaction_id",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
