package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/auth"
	"github.com/milescape/server/internal/config"
	"github.com/milescape/server/internal/http/middlewares"
)

type AuthHandler struct {
	jwt *auth.Manager
	cfg config.Config
}

func NewAuthHandler(jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		jwt: jwtManager,
		cfg: cfg,
	}
}

type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IssueToken signs a token for the caller's email and sets it as the auth
// cookie. Identity itself is established by the frontend's auth provider;
// this endpoint only mints the session the API trusts.
func (h *AuthHandler) IssueToken(ctx *gin.Context) {
	var req TokenRequest

	if !BindJSON(ctx, &req) {
		return
	}

	token, err := h.jwt.Generate(req.Email)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	h.setTokenCookie(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout clears the auth cookie (Max-Age zero) and nothing else; the token
// itself stays valid until it expires.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearTokenCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Cross-site cookies only work over HTTPS, so SameSite=None is reserved for
// production where the frontend lives on another origin. Dev keeps Strict.
func (h *AuthHandler) cookiePolicy() (secure bool, sameSite http.SameSite) {
	if h.cfg.IsProd() {
		return true, http.SameSiteNoneMode
	}
	return false, http.SameSiteStrictMode
}

func (h *AuthHandler) setTokenCookie(ctx *gin.Context, token string) {
	secure, sameSite := h.cookiePolicy()

	maxAge := int(h.cfg.TokenTTL / time.Second)

	ctx.SetSameSite(sameSite)

	ctx.SetCookie(
		middlewares.TokenCookieName,
		token,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearTokenCookie(ctx *gin.Context) {
	secure, sameSite := h.cookiePolicy()
	ctx.SetSameSite(sameSite)
	ctx.SetCookie(
		middlewares.TokenCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
