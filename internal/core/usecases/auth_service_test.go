package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/usecases"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "Farmer@Example.com", "sup3rsecret", "Jordan")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "farmer@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.PasswordHash == "sup3rsecret" {
		t.Error("password stored in plain text")
	}

	token, loggedIn, err := svc.Login(context.Background(), "farmer@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, loggedIn.ID)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected claims for %s, got %s", user.ID, claims.UserID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "not-an-email", "sup3rsecret", ""); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, err := svc.Register(context.Background(), "a@b.com", "short", ""); err == nil {
		t.Error("expected error for short password")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "a@b.com", "sup3rsecret", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "a@b.com", "sup3rsecret", "")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), "a@b.com", "sup3rsecret", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "a@b.com", "wrongpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	_, _, err = svc.Login(context.Background(), "missing@b.com", "sup3rsecret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected same error for unknown email, got %v", err)
	}
}

func TestAuthService_Verify_BadToken(t *testing.T) {
	svc := usecases.NewAuthService(newMockUserRepo(), "test-secret", time.Hour)
	if _, err := svc.Verify("not.a.token"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	// Token signed with a different secret must be rejected.
	other := usecases.NewAuthService(newMockUserRepo(), "other-secret", time.Hour)
	if _, err := other.Register(context.Background(), "a@b.com", "sup3rsecret", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := other.Login(context.Background(), "a@b.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected rejection of foreign token, got %v", err)
	}
}
