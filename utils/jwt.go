package utils

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWTSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Development fallback, override in production via .env
		secret = "TableBookDevSecret2024"
	}
	JWTSecret = []byte(secret)
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type CustomClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func GenerateToken(userID uint, role string) (string, error) {
	return generate(userID, role, TokenTypeAccess, accessTokenTTL)
}

func GenerateRefreshToken(userID uint, role string) (string, error) {
	return generate(userID, role, TokenTypeRefresh, refreshTokenTTL)
}

func generate(userID uint, role, tokenType string, ttl time.Duration) (string, error) {
	claims := &CustomClaims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "TableBook",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	if IsTokenRevoked(tokenString) {
		return nil, errors.New("token has been revoked")
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// In-memory revocation list for logout. Entries outlive the longest token
// TTL and are swept hourly.
var (
	revokedTokens = make(map[string]time.Time)
	revokedMutex  sync.RWMutex
	sweepOnce     sync.Once
)

func RevokeToken(token string) {
	sweepOnce.Do(func() { go sweepRevoked() })

	revokedMutex.Lock()
	defer revokedMutex.Unlock()
	revokedTokens[token] = time.Now().Add(refreshTokenTTL)
}

func IsTokenRevoked(token string) bool {
	revokedMutex.RLock()
	defer revokedMutex.RUnlock()

	expiry, exists := revokedTokens[token]
	return exists && time.Now().Before(expiry)
}

func sweepRevoked() {
	for {
		time.Sleep(1 * time.Hour)
		revokedMutex.Lock()
		now := time.Now()
		for token, expiry := range revokedTokens {
			if now.After(expiry) {
				delete(revokedTokens, token)
			}
		}
		revokedMutex.Unlock()
	}
}
