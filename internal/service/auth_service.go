package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	TokenTypeAccess = "access"
	minSecretLength = 32
)

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrInvalidRole     = errors.New("invalid role")
)

// AuthService issues and validates the access tokens the identity collaborator hands out.
type AuthService interface {
	CreateJWT(ctx context.Context, userID string, role domain.Role) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cfg config.JWTConfig) (AuthService, error) {
	if len(cfg.SecretKey) < minSecretLength {
		return nil, fmt.Errorf("jwt secret key must be at least %d bytes long", minSecretLength)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	return &authServiceImpl{cfg: cfg, now: time.Now}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, userID string, role domain.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	now := s.now()
	claims := dto.AuthClaims{
		UserID:    userID,
		Role:      string(role),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	}, opts...)

	if err != nil {
		snippet := tokenString[:min(len(tokenString), 20)] + "..."
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	if !domain.Role(claims.Role).Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJWTToken, ErrInvalidRole)
	}
	return claims, nil
}
