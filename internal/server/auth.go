package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "taskdeck-agent"

// Token scopes. The API key carries every scope.
const (
	ScopeInventoryRead = "inventory:read"
	ScopeHostRead      = "host:read"
)

// ErrMissingScope is returned when a valid token lacks the scope a route needs
var ErrMissingScope = errors.New("token lacks required scope")

// Claims are the claims of an inventory access token
type Claims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes"`
}

// HasScope reports whether the token grants scope
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// AuthService checks the agent's API key and issues and verifies HS256
// access tokens signed with the JWT secret.
type AuthService struct {
	apiKey    []byte
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(apiKey, jwtSecret string) *AuthService {
	return &AuthService{
		apiKey:    []byte(apiKey),
		jwtSecret: []byte(jwtSecret),
	}
}

// ValidateAPIKey compares key with the configured API key in constant time
func (a *AuthService) ValidateAPIKey(key string) bool {
	return len(a.apiKey) > 0 && subtle.ConstantTimeCompare([]byte(key), a.apiKey) == 1
}

// IssueToken signs a token for subject granting scopes until ttl elapses
func (a *AuthService) IssueToken(subject string, scopes []string, ttl time.Duration) (string, error) {
	if len(scopes) == 0 {
		return "", errors.New("at least one scope is required")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scopes: scopes,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature, issuer and expiry and returns the claims
func (a *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return a.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// Authorize accepts the API key or a token holding scope
func (a *AuthService) Authorize(raw, scope string) (method string, claims *Claims, err error) {
	if a.ValidateAPIKey(raw) {
		return "api_key", nil, nil
	}

	claims, err = a.ParseToken(raw)
	if err != nil {
		return "", nil, err
	}
	if !claims.HasScope(scope) {
		return "", claims, fmt.Errorf("%w %q", ErrMissingScope, scope)
	}
	return "jwt", claims, nil
}

// ExtractToken reads the credential from the Authorization header (with or
// without the Bearer prefix), falling back to the token query parameter.
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
