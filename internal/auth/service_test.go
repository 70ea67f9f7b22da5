package auth

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MyResellApp/MyResell/internal/admin"
	"github.com/MyResellApp/MyResell/internal/users"
	"github.com/MyResellApp/MyResell/pkg/config"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
)

type stubSessionManager struct {
	generated []string
	revoked   []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if provided != "refresh-"+oldAccessID {
		return "", "", fmt.Errorf("unexpected token")
	}
	return oldAccessID + "-next", "refresh-" + oldAccessID + "-next", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "myresell", ExpirationMinutes: 30}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *stubSessionManager) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.AdminUser{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	manager := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		AdminRepo:      admin.NewRepository(conn),
		SessionManager: manager,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, manager
}

func TestRegisterAndLogin(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "super-secret-pw",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", registered.Email)
	}

	resp, err := svc.Login(ctx, LoginRequest{
		Email:      "ada@example.com",
		Password:   "super-secret-pw",
		RedirectTo: "/checkout?plan=pro",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
	if resp.RedirectTo != "/checkout?plan=pro" {
		t.Fatalf("expected redirect echoed, got %q", resp.RedirectTo)
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login recorded")
	}
	if len(manager.generated) != 1 {
		t.Fatalf("expected one refresh session, got %d", len(manager.generated))
	}
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "super-secret-pw",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	newPassword := "even-more-secret"
	if _, err := svc.UpdateProfile(ctx, registered.ID, UpdateProfileRequest{Password: &newPassword}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "super-secret-pw"}); err == nil {
		t.Fatal("expected old password to be rejected")
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: newPassword}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		FullName: "Ada",
		Email:    "ada@example.com",
		Password: "super-secret-pw",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "nope"})
	if err == nil {
		t.Fatal("expected unauthorized")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected CodeUnauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected CodeUnauthorized, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := RegisterRequest{FullName: "Ada", Email: "ada@example.com", Password: "super-secret-pw"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CodeConflict, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, manager := newTestService(t)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(manager.revoked) != 1 || manager.revoked[0] != "access-1" {
		t.Fatalf("expected revoke of access-1, got %v", manager.revoked)
	}
}

func TestSanitizeRedirect(t *testing.T) {
	cases := map[string]string{
		"/pricing":             "/pricing",
		"/checkout?plan=basic": "/checkout?plan=basic",
		"":                     "",
		"https://evil.test":    "",
		"//evil.test":          "",
		"/\\evil.test":         "",
		"relative/path":        "",
	}
	for input, want := range cases {
		if got := SanitizeRedirect(input); got != want {
			t.Errorf("SanitizeRedirect(%q) = %q, want %q", input, got, want)
		}
	}
}
