package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidLinkCode    = errors.New("invalid or already used link code")
)

const tokenTTL = 24 * time.Hour

// AuthService handles registration, login and external-chat linking
type AuthService struct {
	userRepo  repository.UserRepo
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepo, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a user and returns an access token
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.TokenResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		HashedPassword: string(hash),
		Name:           name,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login validates credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *model.User) (*model.TokenResponse, error) {
	claims := &model.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}

// ValidateToken validates a user JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Me returns the current user's profile
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile updates mutable profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name string) (*model.User, error) {
	if err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.Me(ctx, userID)
}

// GenerateLinkCode issues a fresh single-use code for binding an
// external chat identity. Issuing a new code replaces any previous one.
func (s *AuthService) GenerateLinkCode(ctx context.Context, userID int64) (string, error) {
	if _, err := s.Me(ctx, userID); err != nil {
		return "", err
	}

	code := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	if err := s.userRepo.SetLinkCode(ctx, userID, code); err != nil {
		return "", err
	}
	return code, nil
}

// LinkTelegram consumes a link code and binds the telegram identity
func (s *AuthService) LinkTelegram(ctx context.Context, code, telegramID string) (*model.User, error) {
	user, err := s.userRepo.ConsumeLinkCode(ctx, code, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidLinkCode
	}
	return user, nil
}

// UserByTelegramID resolves a telegram identity to a user, creating a
// stub account on first contact.
func (s *AuthService) UserByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// Stub account: no usable password until the user links an email
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = &model.User{
		Email:          fmt.Sprintf("tg_%s@telegram.local", telegramID),
		HashedPassword: string(hash),
		TelegramID:     telegramID,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent first contact
			return s.userRepo.GetByTelegramID(ctx, telegramID)
		}
		return nil, err
	}
	return user, nil
}
