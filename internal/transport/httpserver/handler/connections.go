package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	connectiondomain "doctrack-go/internal/domain/connection"
	userdomain "doctrack-go/internal/domain/user"
	"doctrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type sendConnectionRequest struct {
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

type connectionResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	PeerID       string     `json:"peer_id"`
	Relationship string     `json:"relationship"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
}

type connectionViewResponse struct {
	connectionResponse
	Peer userdomain.Summary `json:"peer"`
}

type pendingViewResponse struct {
	connectionResponse
	Requester userdomain.Summary `json:"requester"`
}

func (h *Handlers) SendConnectionRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req sendConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Target = strings.TrimSpace(req.Target)
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "target is required")
		return
	}

	result, err := h.Connections.SendRequest(r.Context(), user.ID, req.Target, req.Relationship)
	if err != nil {
		switch {
		case errors.Is(err, connectiondomain.ErrInvalidKind):
			h.log.BusinessError("connections.send: invalid relationship kind", err, "user_id", user.ID, "kind", req.Relationship)
			writeError(w, http.StatusBadRequest, "invalid_relationship", "invalid relationship kind")
		case errors.Is(err, connectiondomain.ErrSelfConnection):
			h.log.BusinessError("connections.send: self connection", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "self_connection", "cannot connect to yourself")
		case errors.Is(err, userdomain.ErrUserNotFound), errors.Is(err, userdomain.ErrIdentifierRequired):
			h.log.BusinessError("connections.send: target not found", err, "user_id", user.ID, "target", req.Target)
			writeError(w, http.StatusNotFound, "target_not_found", "target user not found")
		case errors.Is(err, connectiondomain.ErrConnectionExists):
			h.log.BusinessError("connections.send: connection exists", err, "user_id", user.ID, "target", req.Target)
			writeError(w, http.StatusConflict, "connection_exists", "a connection or request already exists")
		default:
			h.log.InternalError("connections.send: send request failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toConnectionResponse(result))
}

func (h *Handlers) AcceptConnection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	connectionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if connectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	result, err := h.Connections.Accept(r.Context(), connectionID, user.ID)
	if err != nil {
		h.writeConnectionActionError(w, err, "connections.accept", user.ID, connectionID)
		return
	}

	writeJSON(w, http.StatusOK, toConnectionResponse(result))
}

func (h *Handlers) DeclineConnection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	connectionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if connectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.Connections.Decline(r.Context(), connectionID, user.ID); err != nil {
		h.writeConnectionActionError(w, err, "connections.decline", user.ID, connectionID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveConnection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	connectionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if connectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.Connections.Remove(r.Context(), connectionID, user.ID); err != nil {
		h.writeConnectionActionError(w, err, "connections.remove", user.ID, connectionID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListConnections(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	views, err := h.Graph.Connections(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("connections.list: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]connectionViewResponse, 0, len(views))
	for _, view := range views {
		response = append(response, connectionViewResponse{
			connectionResponse: toConnectionResponse(&view.Connection),
			Peer:               view.Peer,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListPendingConnections(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	views, err := h.Graph.PendingIncoming(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("connections.pending: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]pendingViewResponse, 0, len(views))
	for _, view := range views {
		response = append(response, pendingViewResponse{
			connectionResponse: toConnectionResponse(&view.Connection),
			Requester:          view.Requester,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) writeConnectionActionError(w http.ResponseWriter, err error, op, userID, connectionID string) {
	switch {
	case errors.Is(err, connectiondomain.ErrConnectionNotFound):
		h.log.BusinessError(op+": connection not found", err, "user_id", userID, "connection_id", connectionID)
		writeError(w, http.StatusNotFound, "connection_not_found", "connection not found")
	case errors.Is(err, connectiondomain.ErrNotInvitee):
		h.log.BusinessError(op+": actor is not the invitee", err, "user_id", userID, "connection_id", connectionID)
		writeError(w, http.StatusForbidden, "not_invitee", "only the invitee may act on this request")
	case errors.Is(err, connectiondomain.ErrNotParticipant):
		h.log.BusinessError(op+": actor is not a participant", err, "user_id", userID, "connection_id", connectionID)
		writeError(w, http.StatusForbidden, "not_participant", "not a participant of this connection")
	case errors.Is(err, connectiondomain.ErrAlreadyResolved):
		h.log.BusinessError(op+": request already resolved", err, "user_id", userID, "connection_id", connectionID)
		writeError(w, http.StatusConflict, "already_resolved", "request already resolved")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "connection_id", connectionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toConnectionResponse(conn *connectiondomain.Connection) connectionResponse {
	return connectionResponse{
		ID:           conn.ID,
		OwnerID:      conn.OwnerID,
		PeerID:       conn.PeerID,
		Relationship: conn.Kind,
		Status:       conn.Status,
		CreatedAt:    conn.CreatedAt,
		AcceptedAt:   conn.AcceptedAt,
	}
}
