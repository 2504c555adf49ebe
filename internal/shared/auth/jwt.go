package auth

import (
	"fmt"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

// Роли пользователей. Выдаются внешним identity-провайдером,
// сервисы им доверяют как непрозрачному факту.
const (
	RoleRider = "RIDER"
	RoleAdmin = "ADMIN"
)

// Claims представляет JWT claims для нашей системы
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"` // RIDER | ADMIN
	jwt.RegisteredClaims
}

// IsAdmin проверяет, является ли пользователь оператором
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// JWTService работает с JWT токенами
type JWTService struct {
	secret        []byte
	expiryMinutes int
}

// NewJWTService создает новый сервис для работы с JWT
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:        []byte(cfg.Secret),
		expiryMinutes: cfg.ExpiryMinutes,
	}
}

// GenerateToken создает новый JWT токен для пользователя
func (s *JWTService) GenerateToken(userID, email, role string) (string, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expiryMinutes) * time.Minute)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken проверяет подпись и срок действия токена
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
