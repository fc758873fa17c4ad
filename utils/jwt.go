package utils

import (
	"errors"
	"time"

	"innkeep/config"

	"github.com/golang-jwt/jwt"
)

// AccessClaims are the claims the hosted auth provider puts into its access tokens.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.StandardClaims
}

func secretKey() []byte {
	return []byte(config.AppConfig.AuthJWTSecret)
}

// GenerateToken creates a signed token shaped like the auth provider's. It is used by tests and
// local tooling; production tokens are minted by the provider.
func GenerateToken(subject, email string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: email,
		Role:  "authenticated",
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			Audience:  config.AppConfig.AuthJWTAudience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns its claims.
func ValidateToken(tokenString string) (*AccessClaims, error) {
	if len(secretKey()) == 0 {
		return nil, errors.New("auth secret not configured")
	}
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if aud := config.AppConfig.AuthJWTAudience; aud != "" && !claims.VerifyAudience(aud, true) {
		return nil, errors.New("token audience mismatch")
	}
	if claims.Subject == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	return claims, nil
}
