package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/config"
)

// ErrInvalidCredentials is returned for any login failure so the response
// never reveals which part of the credentials was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type JwtCustomClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService logs the admin in against env-configured credentials and
// issues the JWT that gates the admin routes.
type AuthService struct {
	rdb *redis.Client
	cfg config.Config
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(rdb *redis.Client, cfg config.Config) *AuthService {
	return &AuthService{rdb: rdb, cfg: cfg}
}

// Login validates the admin credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if !s.credentialsValid(email, password) {
		return "", ErrInvalidCredentials
	}

	claims := &JwtCustomClaims{
		Name:  "admin",
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tkn.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	// Store the session token in Redis keyed by the admin email
	if os.Getenv("ENV") != "test" && s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(email), token, time.Hour*24).Err(); err != nil {
			return "", err
		}
	}

	return token, nil
}

// ValidateSession checks that a session token is the one issued for the
// admin email.
func (s *AuthService) ValidateSession(ctx context.Context, email, token string) error {
	if os.Getenv("ENV") == "test" || s.rdb == nil {
		return nil
	}

	stored, err := s.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("session not found")
		}
		return err
	}
	if stored != token {
		return errors.New("session mismatch")
	}

	return nil
}

func (s *AuthService) credentialsValid(email, password string) bool {
	if s.cfg.AdminEmail == "" || email != s.cfg.AdminEmail {
		return false
	}

	if s.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	if s.cfg.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
}

func sessionKey(email string) string {
	return fmt.Sprintf("admin-session:%s", email)
}
