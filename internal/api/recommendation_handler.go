package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/internal/middleware"
	"github.com/yumzoom/backend/pkg/response"
	"github.com/yumzoom/backend/pkg/validator"
)

type RecommendationHandler struct {
	recService *domain.RecommendationService
	logger     *zap.Logger
}

func NewRecommendationHandler(recService *domain.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recService: recService,
		logger:     logger,
	}
}

// Send handles POST /recommendations
func (h *RecommendationHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		RecipientID  string  `json:"recipient_id"`
		RestaurantID string  `json:"restaurant_id"`
		Message      *string `json:"message,omitempty"`
		Occasion     *string `json:"occasion,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		response.BadRequest(w, "invalid recipient id")
		return
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		response.BadRequest(w, "invalid restaurant id")
		return
	}
	if req.Message != nil && !validator.ValidateMessage(*req.Message, 1000) {
		response.BadRequest(w, "message too long")
		return
	}

	rec, err := h.recService.Send(r.Context(), domain.CreateRecommendationParams{
		SenderID:     userID,
		RecipientID:  recipientID,
		RestaurantID: restaurantID,
		Message:      req.Message,
		Occasion:     req.Occasion,
	})
	if err != nil {
		writeError(w, h.logger, err, "failed to send recommendation")
		return
	}

	response.Created(w, rec)
}

// MarkRead handles POST /recommendations/{id}/read
func (h *RecommendationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.recService.MarkRead)
}

// Accept handles POST /recommendations/{id}/accept
func (h *RecommendationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.recService.Accept)
}

func (h *RecommendationHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, recID uuid.UUID) (*domain.Recommendation, error)) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	recID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid recommendation id")
		return
	}

	rec, err := fn(r.Context(), userID, recID)
	if err != nil {
		writeError(w, h.logger, err, "failed to update recommendation")
		return
	}

	response.OK(w, rec)
}

// Inbox handles GET /recommendations/inbox
func (h *RecommendationHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	limit, offset := pagination(r)
	recs, err := h.recService.Inbox(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to get inbox")
		return
	}

	response.OK(w, recs)
}

// Outbox handles GET /recommendations/outbox
func (h *RecommendationHandler) Outbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	limit, offset := pagination(r)
	recs, err := h.recService.Outbox(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to get outbox")
		return
	}

	response.OK(w, recs)
}
