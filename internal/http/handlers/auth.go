package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/geocoder89/salescrm/internal/http/middlewares"
	"github.com/geocoder89/salescrm/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(u user.Profile) (string, error)
}

type LoginMetrics interface {
	LoginResult(result string)
}

type AuthHandler struct {
	users   UserReader
	tokens  TokenIssuer
	metrics LoginMetrics
}

func NewAuthHandler(users UserReader, tokens TokenIssuer, metrics LoginMetrics) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, metrics: metrics}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  user.Profile `json:"user"`
}

func (h *AuthHandler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.LoginResult(result)
	}
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		h.recordLogin("invalid_request")
		return
	}
	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			h.recordLogin("error")
			RespondInternal(ctx, "Could not sign in")
			return
		}
		security.BurnCompare(req.Password)
		h.recordLogin("invalid_credentials")
		RespondUnAuthorized(ctx, CodeInvalidCredentials, "Email or password is incorrect.")
		return
	}

	if err := security.CheckPassword(foundUser.PasswordHash, req.Password); err != nil {
		h.recordLogin("invalid_credentials")
		RespondUnAuthorized(ctx, CodeInvalidCredentials, "Email or password is incorrect.")
		return
	}

	profile := foundUser.Profile()

	token, err := h.tokens.GenerateAccessToken(profile)
	if err != nil {
		h.recordLogin("error")
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.recordLogin("success")
	ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: profile})
}

// Me re-reads the user so a deleted account stops resolving even with a live token.
func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, CodeUnauthorized, "Missing user")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, CodeUnauthorized, "User no longer exists")
			return
		}
		RespondInternal(ctx, "Could not load user")
		return
	}

	ctx.JSON(http.StatusOK, u.Profile())
}

// Logout is stateless: tokens are not tracked server-side, the client drops its copy.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}
