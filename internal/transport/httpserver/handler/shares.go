package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	sharedomain "doctrack-go/internal/domain/share"
	"doctrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type grantShareRequest struct {
	DocumentID  string  `json:"document_id"`
	RecipientID string  `json:"recipient_id"`
	Permission  string  `json:"permission"`
	Message     *string `json:"message"`
}

type shareResponse struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	RecipientID string    `json:"recipient_id"`
	OwnerID     string    `json:"owner_id"`
	Permission  string    `json:"permission"`
	Message     *string   `json:"message,omitempty"`
	SharedAt    time.Time `json:"shared_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type incomingShareResponse struct {
	shareResponse
	Document sharedomain.DocumentSummary `json:"document"`
	Owner    sharedomain.PersonSummary   `json:"owner"`
}

type outgoingShareResponse struct {
	shareResponse
	Document  sharedomain.DocumentSummary `json:"document"`
	Recipient sharedomain.PersonSummary   `json:"recipient"`
}

func (h *Handlers) GrantShare(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req grantShareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "document_id is required")
		return
	}

	saved, err := h.Shares.Grant(r.Context(), user.ID, req.DocumentID, req.RecipientID, req.Permission, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, sharedomain.ErrInvalidPermission):
			h.log.BusinessError("shares.grant: invalid permission", err, "user_id", user.ID, "permission", req.Permission)
			writeError(w, http.StatusBadRequest, "invalid_permission", "permission must be view or edit")
		case errors.Is(err, sharedomain.ErrRecipientRequired):
			h.log.BusinessError("shares.grant: recipient required", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "recipient_required", "recipient_id is required")
		case errors.Is(err, sharedomain.ErrSelfShare):
			h.log.BusinessError("shares.grant: self share", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "self_share", "cannot share a document with yourself")
		case errors.Is(err, sharedomain.ErrDocumentNotFound):
			h.log.BusinessError("shares.grant: document not found", err, "user_id", user.ID, "document_id", req.DocumentID)
			writeError(w, http.StatusNotFound, "document_not_found", "document not found")
		case errors.Is(err, sharedomain.ErrNotDocumentOwner):
			h.log.BusinessError("shares.grant: not document owner", err, "user_id", user.ID, "document_id", req.DocumentID)
			writeError(w, http.StatusForbidden, "not_document_owner", "only the document owner may share it")
		default:
			h.log.InternalError("shares.grant: failed", err, "user_id", user.ID, "document_id", req.DocumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toShareResponse(saved))
}

func (h *Handlers) RevokeShare(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	shareID := strings.TrimSpace(chi.URLParam(r, "id"))
	if shareID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	if err := h.Shares.Revoke(r.Context(), shareID, user.ID); err != nil {
		switch {
		case errors.Is(err, sharedomain.ErrShareNotFound):
			h.log.BusinessError("shares.revoke: share not found", err, "user_id", user.ID, "share_id", shareID)
			writeError(w, http.StatusNotFound, "share_not_found", "share not found")
		case errors.Is(err, sharedomain.ErrNotGrantOwner):
			h.log.BusinessError("shares.revoke: not grant owner", err, "user_id", user.ID, "share_id", shareID)
			writeError(w, http.StatusForbidden, "not_grant_owner", "only the grantor may revoke a share")
		default:
			h.log.InternalError("shares.revoke: failed", err, "user_id", user.ID, "share_id", shareID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListSharedWithMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	shares, err := h.Shares.ListSharedWithMe(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("shares.with_me: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]incomingShareResponse, 0, len(shares))
	for _, s := range shares {
		response = append(response, incomingShareResponse{
			shareResponse: toShareResponse(&s.Share),
			Document:      s.Document,
			Owner:         s.Owner,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListSharedByMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	shares, err := h.Shares.ListSharedByMe(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("shares.by_me: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]outgoingShareResponse, 0, len(shares))
	for _, s := range shares {
		response = append(response, outgoingShareResponse{
			shareResponse: toShareResponse(&s.Share),
			Document:      s.Document,
			Recipient:     s.Recipient,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func toShareResponse(s *sharedomain.SharedDocument) shareResponse {
	return shareResponse{
		ID:          s.ID,
		DocumentID:  s.DocumentID,
		RecipientID: s.RecipientID,
		OwnerID:     s.OwnerID,
		Permission:  s.Permission,
		Message:     s.Message,
		SharedAt:    s.SharedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
