package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token fails validation
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the identity the platform's auth service resolved. The
// inventory core trusts these claims; role semantics are applied by the
// approval policy, not here.
type Claims struct {
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates access tokens
type JWTService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewJWTService creates a new JWTService from configuration
func NewJWTService(cfg config.JWTConfig) *JWTService {
	expiry := cfg.AccessTokenExpiration
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: expiry,
	}
}

// GenerateAccessToken creates a signed access token for the given identity
func (s *JWTService) GenerateAccessToken(userID, tenantID, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateAccessToken parses and validates a token, returning its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
