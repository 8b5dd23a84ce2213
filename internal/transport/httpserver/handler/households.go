package handler

import (
	"errors"
	"net/http"
	"time"

	householddomain "doctrack-go/internal/domain/household"
	"doctrack-go/internal/transport/httpserver/middleware"
)

type createHouseholdRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type householdResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type createHouseholdResponse struct {
	Household  householdResponse `json:"household"`
	Members    []memberResponse  `json:"members"`
	Unresolved []string          `json:"unresolved,omitempty"`
}

type householdSummaryResponse struct {
	householdResponse
	Members []householddomain.MemberProfile `json:"members"`
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Households.Create(r.Context(), user.ID, req.Name, req.Members)
	if err != nil {
		switch {
		case errors.Is(err, householddomain.ErrNameRequired):
			h.log.BusinessError("households.create: name required", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "name_required", "household name is required")
		default:
			h.log.InternalError("households.create: failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	members := make([]memberResponse, 0, len(result.Members))
	for _, m := range result.Members {
		members = append(members, memberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	writeJSON(w, http.StatusCreated, createHouseholdResponse{
		Household:  toHouseholdResponse(result.Household),
		Members:    members,
		Unresolved: result.Unresolved,
	})
}

func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	summaries, err := h.Households.ListForUser(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("households.list: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]householdSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, householdSummaryResponse{
			householdResponse: toHouseholdResponse(s.Household),
			Members:           s.Members,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func toHouseholdResponse(h householddomain.Household) householdResponse {
	return householdResponse{
		ID:        h.ID,
		Name:      h.Name,
		CreatedBy: h.CreatedBy,
		CreatedAt: h.CreatedAt,
	}
}
