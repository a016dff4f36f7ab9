package models

import "github.com/golang-jwt/jwt/v5"

// AdminLoginRequest holds the shared admin password.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse returns the issued admin token.
type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AdminClaims is the JWT payload for admin access tokens.
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}
