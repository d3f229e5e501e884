package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/internal/middleware"
	"github.com/yumzoom/backend/pkg/response"
)

type SocialHandler struct {
	socialService *domain.SocialService
	logger        *zap.Logger
}

func NewSocialHandler(socialService *domain.SocialService, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		logger:        logger,
	}
}

// GetSettings handles GET /social/settings
func (h *SocialHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	settings, err := h.socialService.GetSettings(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get settings")
		return
	}

	response.OK(w, settings)
}

// UpdateSettings handles PUT /social/settings
func (h *SocialHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req domain.SocialSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	settings, err := h.socialService.UpdateSettings(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.logger, err, "failed to update settings")
		return
	}

	response.OK(w, settings)
}

// GetStats handles GET /social/stats
func (h *SocialHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	stats, err := h.socialService.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get stats")
		return
	}

	response.OK(w, stats)
}

// SetPushToken handles PUT /social/push-token
func (h *SocialHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		response.BadRequest(w, "token is required")
		return
	}

	if err := h.socialService.SetPushToken(r.Context(), userID, req.Token); err != nil {
		writeError(w, h.logger, err, "failed to save push token")
		return
	}

	response.NoContent(w)
}
