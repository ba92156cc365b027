package middleware

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/cybertodo/backend/api/handler"
	"github.com/cybertodo/backend/api/transport"
	"github.com/cybertodo/backend/domain"
	authUC "github.com/cybertodo/backend/usecase/auth"
)

// SessionAuth verifies the signed session token, loads the live session
// and injects the owning user id as X-User-ID for downstream handlers.
// Requests without a valid session never reach the wrapped handler.
func SessionAuth(sessions *authUC.UseCase, cookieName string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := handler.SessionToken(ctx, cookieName)
			if token == "" {
				unauthorized(ctx, "authentication required")
				return
			}

			session, err := sessions.Resolve(ctx, token)
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Error("session lookup failed", zap.Error(err))
				}
				unauthorized(ctx, "invalid or expired session")
				return
			}

			// The header is overwritten unconditionally so clients
			// cannot smuggle their own identity.
			ctx.Request.Header.Set("X-User-ID", session.UserID)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
	ctx.SetBody(body)
}
