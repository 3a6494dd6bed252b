package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims данные, которые переносит токен
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity аутентифицированный пользователь
type Identity struct {
	UserID string
	Email  string
}

// TokenManager выпускает и проверяет HS256 токены
type TokenManager struct {
	secret     []byte
	loginTTL   time.Duration
	serviceTTL time.Duration
	now        func() time.Time
}

// NewTokenManager создает TokenManager с временем жизни для входа и для служебных токенов
func NewTokenManager(secret string, loginTTL, serviceTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		loginTTL:   loginTTL,
		serviceTTL: serviceTTL,
		now:        time.Now,
	}
}

// IssueLoginToken выпускает токен на время сессии (1 час по умолчанию)
func (m *TokenManager) IssueLoginToken(userID, email string) (string, error) {
	return m.Issue(userID, email, m.loginTTL)
}

// IssueServiceToken выпускает долгоживущий токен для служебных вызовов
func (m *TokenManager) IssueServiceToken(userID, email string) (string, error) {
	return m.Issue(userID, email, m.serviceTTL)
}

// Issue выпускает токен с произвольным временем жизни
func (m *TokenManager) Issue(userID, email string, ttl time.Duration) (string, error) {
	if userID == "" || email == "" {
		return "", errors.New("user id and email are required to issue a token")
	}

	now := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify проверяет подпись и срок действия токена
func (m *TokenManager) Verify(tokenString string) (Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Identity{}, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return Identity{}, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// BearerToken извлекает токен из заголовка Authorization вида "Bearer <token>"
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
