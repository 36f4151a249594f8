// Package adapters implements application-layer interfaces backed by
// third-party services and libraries.
package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	domainerror "github.com/team-mirai-volunteer/marumie-backend/internal/domain/error"
)

// AdminRole is the role claim required on the admin surface.
const AdminRole = "admin"

// JWTTokenService implements adapter.TokenService with HS256 signed tokens.
type JWTTokenService struct {
	secret []byte
}

// NewJWTTokenService creates a new JWTTokenService instance.
func NewJWTTokenService(secret string) *JWTTokenService {
	return &JWTTokenService{secret: []byte(secret)}
}

func (s *JWTTokenService) GenerateAdminToken(subject string, expiry time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": AdminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(expiry).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *JWTTokenService) ValidateToken(ctx context.Context, tokenString string) (*adapter.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domainerror.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerror.ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	return &adapter.TokenClaims{
		Subject: subject,
		Role:    role,
	}, nil
}
