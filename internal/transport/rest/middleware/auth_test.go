package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/service"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := &model.UserClaims{
		UserID: 42,
		Email:  "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireUser(t *testing.T) {
	mw := NewAuthMiddleware(service.NewAuthService(nil, testSecret))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) != 42 {
			t.Errorf("GetUserID = %d, want 42", GetUserID(r.Context()))
		}
		if GetEmail(r.Context()) != "a@b.com" {
			t.Errorf("GetEmail = %q, want a@b.com", GetEmail(r.Context()))
		}
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + signToken(t, testSecret, time.Hour), http.StatusNoContent},
		{"case-insensitive scheme", "bearer " + signToken(t, testSecret, time.Hour), http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, testSecret, -time.Hour), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", time.Hour), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/v1/auth/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			mw.RequireUser(next).ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
