package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/internal/middleware"
	"github.com/yumzoom/backend/pkg/response"
)

type ActivityHandler struct {
	activityService *domain.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *domain.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// Record handles POST /activities
func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Type         string     `json:"type"`
		Payload      domain.Map `json:"payload"`
		RestaurantID *string    `json:"restaurant_id,omitempty"`
		MenuItemID   *string    `json:"menu_item_id,omitempty"`
		Rating       *int       `json:"rating,omitempty"`
		IsPublic     bool       `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}
	if req.Type == "" {
		response.BadRequest(w, "type is required")
		return
	}

	params := domain.CreateActivityParams{
		UserID:   userID,
		Type:     domain.ActivityType(req.Type),
		Payload:  req.Payload,
		Rating:   req.Rating,
		IsPublic: req.IsPublic,
	}
	if req.RestaurantID != nil {
		id, err := uuid.Parse(*req.RestaurantID)
		if err != nil {
			response.BadRequest(w, "invalid restaurant id")
			return
		}
		params.RestaurantID = &id
	}
	if req.MenuItemID != nil {
		id, err := uuid.Parse(*req.MenuItemID)
		if err != nil {
			response.BadRequest(w, "invalid menu item id")
			return
		}
		params.MenuItemID = &id
	}

	activity, err := h.activityService.Record(r.Context(), params)
	if err != nil {
		writeError(w, h.logger, err, "failed to record activity")
		return
	}

	response.Created(w, activity)
}

// Feed handles GET /activities/feed
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	limit, offset := pagination(r)
	items, err := h.activityService.Feed(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to get feed")
		return
	}

	response.OK(w, items)
}

// Mine handles GET /activities/me
func (h *ActivityHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	limit, offset := pagination(r)
	activities, err := h.activityService.Mine(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to get activities")
		return
	}

	response.OK(w, activities)
}
