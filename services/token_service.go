package services

import (
	"fmt"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/config"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair holds the generated access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the decoded payload of a validated token.
type Claims struct {
	UserID   string
	Email    string
	UserName string
	Role     string
	Type     string
	TokenID  string
}

// TokenService creates and validates JWTs. Access and refresh tokens are
// signed with different secrets.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// GenerateTokenPair creates a new access and refresh token pair.
func (s *TokenService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.generateToken(user, TokenTypeAccess, s.accessSecret, s.accessTTL, "")
	if err != nil {
		return nil, err
	}

	// jti keeps two refresh tokens minted in the same second distinct
	refreshToken, err := s.generateToken(user, TokenTypeRefresh, s.refreshSecret, s.refreshTTL, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateToken parses tokenStr with the secret for expectedType and checks
// the typ claim.
func (s *TokenService) ValidateToken(tokenStr, expectedType string) (*Claims, error) {
	secret := s.accessSecret
	if expectedType == TokenTypeRefresh {
		secret = s.refreshSecret
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	claims := &Claims{
		UserID:   stringClaim(mc, "sub"),
		Email:    stringClaim(mc, "email"),
		UserName: stringClaim(mc, "username"),
		Role:     stringClaim(mc, "role"),
		Type:     stringClaim(mc, "typ"),
		TokenID:  stringClaim(mc, "jti"),
	}
	if claims.Type != expectedType {
		return nil, fmt.Errorf("invalid token type")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

func (s *TokenService) generateToken(user *models.User, tokenType string, secret []byte, ttl time.Duration, tokenID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.Hex(),
		"email":    user.Email,
		"username": user.UserName,
		"role":     user.Role,
		"typ":      tokenType,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}
	if tokenID != "" {
		claims["jti"] = tokenID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}
