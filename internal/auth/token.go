package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"oneguard/internal/models"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	accessTTL  = time.Hour
	refreshTTL = 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("wrong token type")
)

// Claims — разобранные утверждения из валидного токена.
type Claims struct {
	UserID    uint
	TokenType string
}

// Pair — пара токенов, которую получает клиент при логине.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager подписывает и проверяет HS256-токены.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

func (m *Manager) sign(u *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    u.ID,
		"token_type": tokenType,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
	return token.SignedString(m.secret)
}

// GeneratePair выдаёт access + refresh для пользователя.
func (m *Manager) GeneratePair(u *models.User) (Pair, error) {
	access, err := m.sign(u, TypeAccess, accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(u, TypeRefresh, refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Access выдаёт новый access-токен (по валидному refresh).
func (m *Manager) Access(u *models.User) (string, error) {
	return m.sign(u, TypeAccess, accessTTL)
}

// Parse проверяет подпись и срок и возвращает claims.
// Принимает и "Bearer <token>", и голый токен.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		tokenString = strings.TrimSpace(tokenString[len("bearer "):])
	}
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, ErrInvalidToken
	}
	tokenType, _ := claims["token_type"].(string)

	return &Claims{
		UserID:    uint(userID),
		TokenType: tokenType,
	}, nil
}

// ParseAccess принимает только access-токены.
func (m *Manager) ParseAccess(tokenString string) (*Claims, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeAccess {
		return nil, ErrWrongType
	}
	return claims, nil
}

// ParseRefresh принимает только refresh-токены.
func (m *Manager) ParseRefresh(tokenString string) (*Claims, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeRefresh {
		return nil, ErrWrongType
	}
	return claims, nil
}
