package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/internal/metrics"
	"github.com/yumzoom/backend/internal/middleware"
	"github.com/yumzoom/backend/pkg/response"
	"github.com/yumzoom/backend/pkg/validator"
)

type CollabHandler struct {
	collabService *domain.CollabService
	logger        *zap.Logger
}

func NewCollabHandler(collabService *domain.CollabService, logger *zap.Logger) *CollabHandler {
	return &CollabHandler{
		collabService: collabService,
		logger:        logger,
	}
}

// CreateSession handles POST /collab/sessions
func (h *CollabHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		Title       string             `json:"title"`
		Description *string            `json:"description,omitempty"`
		Type        string             `json:"type"`
		Deadline    *time.Time         `json:"deadline,omitempty"`
		VotingRules domain.VotingRules `json:"voting_rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	if verrs := validator.ValidateTitle(req.Title); verrs.HasErrors() {
		response.BadRequest(w, verrs.Error())
		return
	}
	if req.Type == "" {
		req.Type = "restaurant_choice"
	}

	session, err := h.collabService.Create(r.Context(), domain.CreateSessionParams{
		CreatorID:   userID,
		Title:       validator.SanitizeString(req.Title, 200),
		Description: req.Description,
		Type:        req.Type,
		Deadline:    req.Deadline,
		Rules:       req.VotingRules,
	})
	if err != nil {
		writeError(w, h.logger, err, "failed to create session")
		return
	}

	metrics.SessionsCreated.Inc()
	response.Created(w, session)
}

// ListSessions handles GET /collab/sessions
func (h *CollabHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var status *domain.SessionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.SessionStatus(s)
		status = &st
	}

	limit, offset := pagination(r)
	sessions, err := h.collabService.ListMine(r.Context(), userID, status, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to list sessions")
		return
	}

	response.OK(w, sessions)
}

// GetDetails handles GET /collab/sessions/{id}
func (h *CollabHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	details, err := h.collabService.Details(r.Context(), userID, sessionID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get session")
		return
	}

	response.OK(w, details)
}

// AddOption handles POST /collab/sessions/{id}/options
func (h *CollabHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	var req struct {
		RestaurantID string  `json:"restaurant_id"`
		Reason       *string `json:"reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		response.BadRequest(w, "invalid restaurant id")
		return
	}

	option, err := h.collabService.AddOption(r.Context(), userID, domain.AddOptionParams{
		SessionID:    sessionID,
		RestaurantID: restaurantID,
		Reason:       req.Reason,
	})
	if err != nil {
		writeError(w, h.logger, err, "failed to add option")
		return
	}

	response.Created(w, option)
}

// CastVote handles POST /collab/sessions/{id}/votes
func (h *CollabHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	var req struct {
		OptionID string  `json:"option_id"`
		Weight   int     `json:"weight,omitempty"`
		Comment  *string `json:"comment,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		response.BadRequest(w, "invalid option id")
		return
	}

	vote, err := h.collabService.CastVote(r.Context(), userID, sessionID, optionID, req.Weight, req.Comment)
	if err != nil {
		writeError(w, h.logger, err, "failed to cast vote")
		return
	}

	metrics.VotesCast.Inc()
	response.OK(w, vote)
}

// GetResults handles GET /collab/sessions/{id}/results
func (h *CollabHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return
	}

	results, err := h.collabService.Results(r.Context(), sessionID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get results")
		return
	}

	response.OK(w, results)
}

// Close handles POST /collab/sessions/{id}/close
func (h *CollabHandler) Close(w http.ResponseWriter, r *http.Request) {
	session, done := h.finish(w, r, h.collabService.Close)
	if done {
		return
	}
	metrics.SessionsClosed.WithLabelValues("manual").Inc()
	response.OK(w, session)
}

// Cancel handles POST /collab/sessions/{id}/cancel
func (h *CollabHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	session, done := h.finish(w, r, h.collabService.Cancel)
	if done {
		return
	}
	response.OK(w, session)
}

func (h *CollabHandler) finish(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, sessionID uuid.UUID) (*domain.CollabSession, error)) (*domain.CollabSession, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return nil, true
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid session id")
		return nil, true
	}

	session, err := fn(r.Context(), userID, sessionID)
	if err != nil {
		writeError(w, h.logger, err, "failed to update session")
		return nil, true
	}

	return session, false
}
