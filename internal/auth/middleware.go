package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/authcore/internal/observability"
	"github.com/spec-kit/authcore/pkg/util/errorutil"
)

// UnauthorizedMessage is the only text a rejected caller ever sees.
const UnauthorizedMessage = "unauthorized"

// Middleware enforces the gate on protected routes. Rejections stop the
// chain with a uniform 401; the specific reason is only logged and counted.
func (g *Gate) Middleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := g.Evaluate(c.Get(fiber.HeaderAuthorization))
		metrics.RecordGateDecision(decision.Outcome.String(), string(decision.Reason))

		if decision.Outcome != Authorized {
			logger.Info("request rejected",
				zap.String("reason", string(decision.Reason)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(decision.Err),
			)
			return errorutil.NewUnauthorized(UnauthorizedMessage)
		}

		c.SetUserContext(WithAuth(c.UserContext(), decision.Auth))
		return c.Next()
	}
}

// FromFiber returns the AuthContext attached by Middleware.
func FromFiber(c *fiber.Ctx) (*AuthContext, bool) {
	return FromContext(c.UserContext())
}
