package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nytro_assessment_backend/internal/auth/password"
	"nytro_assessment_backend/platform/httpkit"
	"nytro_assessment_backend/platform/logger"
)

type testAuthConfig struct {
	email string
	hash  string
}

func (c testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (c testAuthConfig) GetAccessTokenTTL() time.Duration { return time.Hour }
func (c testAuthConfig) GetAdminEmail() string            { return c.email }
func (c testAuthConfig) GetAdminPasswordHash() string     { return c.hash }

func newTestService(t *testing.T, plainPassword string) *Service {
	t.Helper()
	hash, err := password.Hash(plainPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return New(testAuthConfig{email: "admin@example.com", hash: hash}, logger.New("development"))
}

func TestSignIn(t *testing.T) {
	svc := newTestService(t, "correct horse battery")

	tokenStr, err := svc.SignIn(context.Background(), "admin@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	parsed, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["type"] != "access" {
		t.Fatalf("unexpected token type %v", claims["type"])
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != "admin" {
		t.Fatalf("unexpected roles %v", claims["roles"])
	}

	sub, _ := claims["sub"].(string)
	subID, err := uuid.Parse(sub)
	if err != nil {
		t.Fatalf("sub claim %q is not a UUID: %v", sub, err)
	}
	if subID != adminSubject("admin@example.com") {
		t.Fatalf("sub claim %s does not match the derived admin subject", subID)
	}
	if claims["email"] != "admin@example.com" {
		t.Fatalf("unexpected email claim %v", claims["email"])
	}
}

func TestAdminSubjectStable(t *testing.T) {
	a := adminSubject("admin@example.com")
	b := adminSubject("Admin@Example.COM")
	if a != b {
		t.Fatalf("admin subject should be case-insensitive, got %s and %s", a, b)
	}
}

func TestSignInTokenAcceptedByAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hash, err := password.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := testAuthConfig{email: "admin@example.com", hash: hash}
	svc := New(cfg, logger.New("development"))

	tokenStr, err := svc.SignIn(context.Background(), "admin@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	engine := gin.New()
	engine.GET("/admin/ping", httpkit.AuthRequired(cfg), httpkit.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 behind auth middleware, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestSignInCaseInsensitiveEmail(t *testing.T) {
	svc := newTestService(t, "pw12345678")

	if _, err := svc.SignIn(context.Background(), "Admin@Example.COM", "pw12345678"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc := newTestService(t, "pw12345678")

	_, err := svc.SignIn(context.Background(), "admin@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInWrongEmail(t *testing.T) {
	svc := newTestService(t, "pw12345678")

	_, err := svc.SignIn(context.Background(), "someone@example.com", "pw12345678")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInUnconfigured(t *testing.T) {
	svc := New(testAuthConfig{}, logger.New("development"))

	_, err := svc.SignIn(context.Background(), "admin@example.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
