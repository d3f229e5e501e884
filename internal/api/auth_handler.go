package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/auth"
	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/pkg/response"
)

// AuthHandler exchanges trusted upstream identity assertions for token
// pairs. Login, registration and password handling live in the external
// identity provider; this service only mints and refreshes its own tokens.
type AuthHandler struct {
	users          domain.UserRepository
	jwtManager     *auth.JWTManager
	exchangeSecret string
	logger         *zap.Logger
}

func NewAuthHandler(users domain.UserRepository, jwtManager *auth.JWTManager, exchangeSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:          users,
		jwtManager:     jwtManager,
		exchangeSecret: exchangeSecret,
		logger:         logger,
	}
}

// Token handles POST /auth/token. The caller must present the shared
// exchange secret; the asserted identity is mirrored into the local users
// table and a token pair issued for it.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.exchangeSecret == "" {
		response.Forbidden(w, "token exchange is not configured")
		return
	}

	presented := r.Header.Get("X-Exchange-Secret")
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.exchangeSecret)) != 1 {
		response.Unauthorized(w, "invalid exchange secret")
		return
	}

	var req struct {
		UserID    string  `json:"user_id"`
		Name      string  `json:"name"`
		AvatarURL *string `json:"avatar_url,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}

	user, err := h.users.EnsureUser(r.Context(), userID, req.Name, req.AvatarURL)
	if err != nil {
		writeError(w, h.logger, err, "failed to ensure user")
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(user.ID, user.Name)
	if err != nil {
		h.logger.Error("failed to generate token pair", zap.Error(err))
		response.InternalError(w, "failed to issue tokens")
		return
	}

	response.OK(w, pair)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		response.BadRequest(w, "refresh_token is required")
		return
	}

	claims, err := h.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		response.Unauthorized(w, "invalid refresh token")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, h.logger, err, "failed to load user")
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(user.ID, user.Name)
	if err != nil {
		h.logger.Error("failed to generate token pair", zap.Error(err))
		response.InternalError(w, "failed to issue tokens")
		return
	}

	response.OK(w, pair)
}
