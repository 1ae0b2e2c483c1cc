package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/authcore/internal/api/dto"
	"github.com/spec-kit/authcore/internal/auth"
	"github.com/spec-kit/authcore/internal/observability"
	"github.com/spec-kit/authcore/internal/service"
	"github.com/spec-kit/authcore/pkg/util/errorutil"
)

// InvalidCredentialsMessage is returned for every rejected login, whatever the cause.
const InvalidCredentialsMessage = "invalid credentials"

// AuthHandler exposes the login endpoint and the authenticated identity endpoint.
type AuthHandler struct {
	auth    *service.AuthService
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger, metrics: metrics}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Identifier == "" || req.Secret == "" {
		return errorutil.NewValidationError("identifier and secret required", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Identifier, req.Secret)
	if err != nil {
		return h.loginFailed(err)
	}

	h.metrics.RecordLogin("success")
	h.logger.Info("login succeeded",
		zap.String("subject", result.Claims.Subject.String()),
		zap.String("token_id", result.Claims.TokenID),
	)
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: result.Token, ExpiresAt: result.Claims.ExpiresAt},
	})
}

// loginFailed collapses credential and store failures into one response.
// Only an unreadable stored hash, or an error outside the auth taxonomy,
// becomes a 500.
func (h *AuthHandler) loginFailed(err error) error {
	reason, ok := auth.ReasonOf(err)
	if !ok || reason == auth.ReasonMalformedHash {
		h.metrics.RecordLogin("internal_error")
		h.logger.Error("login failed", zap.Error(err))
		return errorutil.NewInternalError(err)
	}

	h.metrics.RecordLogin(string(reason))
	if reason.Internal() {
		h.logger.Error("login failed", zap.String("reason", string(reason)), zap.Error(err))
	} else {
		h.logger.Info("login rejected", zap.String("reason", string(reason)), zap.Error(err))
	}
	return errorutil.WrapUnauthorized(InvalidCredentialsMessage, err)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ac, ok := auth.FromFiber(c)
	if !ok {
		return errorutil.NewUnauthorized(auth.UnauthorizedMessage)
	}
	return c.JSON(fiber.Map{
		"data": dto.SubjectResponse{
			Subject:   ac.Subject.String(),
			IssuedAt:  ac.IssuedAt,
			ExpiresAt: ac.ExpiresAt,
		},
	})
}
