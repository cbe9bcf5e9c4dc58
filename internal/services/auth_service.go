package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
)

const bcryptCost = 10

// tokenLeeway tolerates small clock skew between issuer and verifier.
const tokenLeeway = 2 * time.Minute

// AuthService is the identity provider: it hashes passwords and issues and
// verifies signed identity tokens.
type AuthService interface {
	Issue(userID, name string) (string, error)
	Verify(token string) (*models.Identity, error)
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
}

type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type authService struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthService returns an HS256 identity provider. A zero ttl issues
// tokens without expiry.
func NewAuthService(secret string, ttl time.Duration) AuthService {
	return &authService{secret: []byte(secret), ttl: ttl}
}

func (s *authService) Issue(userID, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authService) Verify(tokenStr string) (*models.Identity, error) {
	if tokenStr == "" {
		return nil, apperrors.ErrAuthRequired
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// only HMAC; anything else is a forgery attempt
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithLeeway(tokenLeeway))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", apperrors.ErrInvalidToken)
	}
	return &models.Identity{UserID: claims.UserID, Name: claims.Name}, nil
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
