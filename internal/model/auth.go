package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims for an authenticated user
type UserClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
