package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	token, err := svc.Register(ctx, "Alice@Example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token.AccessToken == "" || token.TokenType != "bearer" {
		t.Fatalf("token = %+v", token)
	}

	// Email is normalized, so login with any casing works
	if _, err := svc.Login(ctx, "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	if _, err := svc.Register(ctx, "a@b.com", "pw", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.com", "pw2", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register err = %v, want ErrEmailTaken", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")

	token, err := svc.Register(ctx, "a@b.com", "pw", "A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := svc.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("claims.Email = %q, want a@b.com", claims.Email)
	}

	user, err := svc.Me(ctx, claims.UserID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Email != "a@b.com" || user.Name != "A" {
		t.Errorf("user = %+v", user)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")
	other := NewAuthService(newFakeUserRepo(), "another-secret")

	token, err := svc.Register(ctx, "a@b.com", "pw", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := other.ValidateToken(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v, want ErrInvalidToken", err)
	}
}

func TestLinkCodeSingleUse(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")

	token, err := svc.Register(ctx, "a@b.com", "pw", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	claims, err := svc.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	code, err := svc.GenerateLinkCode(ctx, claims.UserID)
	if err != nil {
		t.Fatalf("GenerateLinkCode: %v", err)
	}
	if len(code) != 8 || strings.Contains(code, "-") {
		t.Errorf("code = %q, want 8 hex chars", code)
	}

	user, err := svc.LinkTelegram(ctx, code, "tg-123")
	if err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}
	if user.TelegramID != "tg-123" {
		t.Errorf("TelegramID = %q, want tg-123", user.TelegramID)
	}

	// Second consume of the same code fails
	if _, err := svc.LinkTelegram(ctx, code, "tg-456"); !errors.Is(err, ErrInvalidLinkCode) {
		t.Fatalf("reuse err = %v, want ErrInvalidLinkCode", err)
	}
}

func TestUserByTelegramIDCreatesStub(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	user, err := svc.UserByTelegramID(ctx, "tg-777")
	if err != nil {
		t.Fatalf("UserByTelegramID: %v", err)
	}
	if user.TelegramID != "tg-777" {
		t.Errorf("TelegramID = %q, want tg-777", user.TelegramID)
	}
	if !strings.Contains(user.Email, "tg-777") {
		t.Errorf("stub email = %q, want it to carry the telegram id", user.Email)
	}

	// Second contact resolves to the same account
	again, err := svc.UserByTelegramID(ctx, "tg-777")
	if err != nil {
		t.Fatalf("second contact: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("second contact id = %d, want %d", again.ID, user.ID)
	}
}
