// Package handler exposes the admin sign-in endpoint.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nytro_assessment_backend/internal/auth/service"
	"nytro_assessment_backend/internal/auth/transport"
	"nytro_assessment_backend/platform/httpkit"
	"nytro_assessment_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SignIn authenticates the admin and returns an access token.
// POST /api/v1/auth/sign-in
func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	token, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpkit.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, "sign in failed", nil)
		return
	}

	httpkit.OK(c, transport.AuthResponse{AccessToken: token})
}
