package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/cybertodo/backend/api/transport"
	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/pkg/httpcontext"
	authUC "github.com/cybertodo/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	cookieName string
	sessionTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, cookieName string, sessionTTL time.Duration) *AuthHandler {
	if cookieName == "" {
		cookieName = "cybertodo_session"
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookieName:  cookieName,
		sessionTTL:  sessionTTL,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if !h.decodeBody(ctx, &req, func() {
		req.Username = string(ctx.PostArgs().Peek("username"))
		req.Email = string(ctx.PostArgs().Peek("email"))
		req.Password = string(ctx.PostArgs().Peek("password"))
	}) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Register(stdCtx, req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user)
}

// @Summary Log in and open a session
// @Tags auth
// @Router /login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decodeBody(ctx, &req, func() {
		req.Username = string(ctx.PostArgs().Peek("username"))
		req.Password = string(ctx.PostArgs().Peek("password"))
	}) {
		return
	}
	if req.Username == "" || req.Password == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "username and password are required", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.uc.Login(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setSessionCookie(ctx, token, h.sessionTTL)
	h.respondSuccess(ctx, http.StatusOK, transport.LoginResponse{Token: token, User: user})
}

// @Summary Close the current session
// @Tags auth
// @Router /logout [get]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	token := SessionToken(ctx, h.cookieName)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if token != "" {
		if err := h.uc.Logout(stdCtx, token); err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	h.clearSessionCookie(ctx)
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "logged out"})
}

// decodeBody parses a JSON body, or falls back to form fields for the
// browser-facing endpoints. Returns false after writing a 400.
func (h *AuthHandler) decodeBody(ctx *fasthttp.RequestCtx, out interface{}, fromForm func()) bool {
	contentType := ctx.Request.Header.ContentType()
	if bytes.HasPrefix(contentType, []byte("application/json")) {
		if err := json.Unmarshal(ctx.PostBody(), out); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
			return false
		}
		return true
	}
	fromForm()
	return true
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, token string, ttl time.Duration) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(h.cookieName)
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(time.Now().Add(ttl))
	ctx.Response.Header.SetCookie(cookie)
}

func (h *AuthHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(h.cookieName)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(cookie)
}

// SessionToken extracts the signed session token from the Authorization
// header or the session cookie, in that order.
func SessionToken(ctx *fasthttp.RequestCtx, cookieName string) string {
	header := ctx.Request.Header.Peek("Authorization")
	if len(header) > 0 {
		const prefix = "Bearer "
		if bytes.HasPrefix(header, []byte(prefix)) {
			return string(header[len(prefix):])
		}
		return string(header)
	}
	return string(ctx.Request.Header.Cookie(cookieName))
}
