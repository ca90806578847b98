package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"animediary/internal/api/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by an access token.
type Claims struct {
	UserID   string
	Username string
}

type TokenService interface {
	GenerateAccessToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type tokenService struct {
	secret         string
	accessTokenTTL time.Duration
}

func NewTokenService(secret string, accessTokenTTL time.Duration) TokenService {
	return &tokenService{secret: secret, accessTokenTTL: accessTokenTTL}
}

func (s *tokenService) GenerateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *tokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := mapClaims["user_id"].(string)
	username, _ := mapClaims["username"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: userID, Username: username}, nil
}
