// Package service implements admin sign-in against credentials from the
// environment. There is a single admin account; no user table is involved.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nytro_assessment_backend/internal/auth/password"
	"nytro_assessment_backend/platform/config"
	"nytro_assessment_backend/platform/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const accessTokenType = "access"

type Service struct {
	cfg config.AuthServiceConfig
	log *logger.Logger
}

func New(cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

// SignIn verifies the admin credentials and returns a signed access token.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, error) {
	adminEmail := s.cfg.GetAdminEmail()
	adminHash := s.cfg.GetAdminPasswordHash()
	if adminEmail == "" || adminHash == "" {
		return "", ErrInvalidCredentials
	}

	if !strings.EqualFold(strings.TrimSpace(email), adminEmail) {
		return "", ErrInvalidCredentials
	}

	if err := password.Compare(adminHash, plainPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	tokenStr, err := s.signJWT(adminSubject(adminEmail), adminEmail, []string{"admin"}, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return "", err
	}

	s.log.Info("admin signed in", "email", adminEmail)
	return tokenStr, nil
}

// adminSubject derives a stable UUID for the admin account. The token
// middleware parses the sub claim as a UUID, and there is no user table to
// assign one from.
func adminSubject(email string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(strings.ToLower(email)))
}

func (s *Service) signJWT(subject uuid.UUID, email string, roles []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject.String(),
		"email": email,
		"type":  accessTokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
