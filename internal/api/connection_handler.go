package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/internal/middleware"
	"github.com/yumzoom/backend/pkg/response"
	"github.com/yumzoom/backend/pkg/validator"
)

type ConnectionHandler struct {
	connService *domain.ConnectionService
	logger      *zap.Logger
}

func NewConnectionHandler(connService *domain.ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connService: connService,
		logger:      logger,
	}
}

// SendRequest handles POST /connections/request
func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		TargetUserID string  `json:"target_user_id"`
		Type         string  `json:"type"`
		Notes        *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		response.BadRequest(w, "invalid target user id")
		return
	}
	if !validator.ValidateConnectionType(req.Type) {
		response.BadRequest(w, "type must be friend or family")
		return
	}

	conn, err := h.connService.SendRequest(r.Context(), userID, targetID, domain.ConnectionType(req.Type), req.Notes)
	if err != nil {
		writeError(w, h.logger, err, "failed to send request")
		return
	}

	response.Created(w, conn)
}

// RespondRequest handles POST /connections/respond
func (h *ConnectionHandler) RespondRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	var req struct {
		ConnectionID string `json:"connection_id"`
		Accept       bool   `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request")
		return
	}

	connID, err := uuid.Parse(req.ConnectionID)
	if err != nil {
		response.BadRequest(w, "invalid connection id")
		return
	}

	conn, err := h.connService.Respond(r.Context(), userID, connID, req.Accept)
	if err != nil {
		writeError(w, h.logger, err, "failed to respond")
		return
	}
	if conn == nil {
		// declined: the pending row is gone
		response.NoContent(w)
		return
	}

	response.OK(w, conn)
}

// Block handles POST /connections/{id}/block
func (h *ConnectionHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	connID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid connection id")
		return
	}

	conn, err := h.connService.Block(r.Context(), userID, connID)
	if err != nil {
		writeError(w, h.logger, err, "failed to block")
		return
	}

	response.OK(w, conn)
}

// Remove handles DELETE /connections/{id}
func (h *ConnectionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	connID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid connection id")
		return
	}

	if err := h.connService.Remove(r.Context(), userID, connID); err != nil {
		writeError(w, h.logger, err, "failed to remove connection")
		return
	}

	response.NoContent(w)
}

// Status handles GET /connections/status/{userID}
func (h *ConnectionHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	otherID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	state, err := h.connService.Status(r.Context(), userID, otherID)
	if err != nil {
		writeError(w, h.logger, err, "failed to get status")
		return
	}

	response.OK(w, map[string]string{"status": string(state)})
}

// GetConnections handles GET /connections
func (h *ConnectionHandler) GetConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	limit, offset := pagination(r)
	conns, err := h.connService.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to get connections")
		return
	}

	response.OK(w, conns)
}

// GetRequests handles GET /connections/requests
func (h *ConnectionHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	limit, offset := pagination(r)
	conns, err := h.connService.PendingRequests(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err, "failed to get requests")
		return
	}

	response.OK(w, conns)
}

// pagination reads page/limit query params into limit/offset.
func pagination(r *http.Request) (limit, offset int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
