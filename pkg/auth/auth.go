// Package auth provides the two credential kinds accepted by the HTTP transport:
// bcrypt-hashed long-lived API keys and short-lived HS256 JWTs minted from them.
// This is a leaf package with no domain dependencies.
package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BCryptCost is the work factor for bcrypt hashing of API keys.
const BCryptCost = 12

// DefaultTokenExpiry is the default JWT expiration in hours if not set via env.
const DefaultTokenExpiry = 24

const (
	envJWTSecret = "JWT_SECRET"
	envJWTExpiry = "JWT_EXPIRY"
)

// getJWTSecret reads JWT_SECRET from environment. Panics if not set.
// Token operations must not be reachable without a secret configured;
// callers gate on SecretConfigured before parsing or minting.
func getJWTSecret() []byte {
	secret := os.Getenv(envJWTSecret)
	if secret == "" {
		panic(envJWTSecret + " environment variable not set — cannot initialize auth")
	}
	return []byte(secret)
}

// SecretConfigured reports whether a JWT secret is available in the environment.
func SecretConfigured() bool {
	return os.Getenv(envJWTSecret) != ""
}

// parseTokenExpiry parses an expiry string (hours) into a Duration.
// Returns DefaultTokenExpiry for an empty string or invalid number.
func parseTokenExpiry(expiryStr string) time.Duration {
	if expiryStr == "" {
		return time.Duration(DefaultTokenExpiry) * time.Hour
	}

	hours, err := strconv.Atoi(expiryStr)
	if err != nil {
		return time.Duration(DefaultTokenExpiry) * time.Hour
	}

	return time.Duration(hours) * time.Hour
}

// getTokenExpiry reads JWT_EXPIRY from environment in hours.
func getTokenExpiry() time.Duration {
	return parseTokenExpiry(os.Getenv(envJWTExpiry))
}

// HashAPIKey hashes a plaintext API key using bcrypt. The hash (not the key)
// is what gets configured on the server side.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hash), nil
}

// VerifyAPIKey verifies a plaintext API key against a bcrypt hash.
// Returns false (not error) for malformed hashes to avoid leaking hash format
// information in responses.
func VerifyAPIKey(hash, key string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}

// Claims represents the JWT claims carried by a rolodex session token.
type Claims struct {
	Subject string `json:"sub_name"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the given subject (a client name,
// free-form). Uses JWT_SECRET from env and JWT_EXPIRY (default 24 hours).
// Panics if JWT_SECRET is not set.
func GenerateToken(subject string) (string, error) {
	now := time.Now()
	expiresAt := now.Add(getTokenExpiry())

	claims := &Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ParseToken validates and parses a JWT, extracting claims.
// Returns an error if the token is invalid, expired, or signed with a
// different method.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return getJWTSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
