package group

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cajurona/backend/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/members", h.AddMember)
	r.Put("/members/{memberId}", h.UpdateMemberApproval)
	r.Post("/{id}/invite-link/renew", h.RenewInviteLink)

	return r
}

// Create handles POST /groups
// @Summary      Create a new group
// @Description  Creates the group, schedules the week's trips and optionally creates the WhatsApp group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=Group}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}
	if req.PricingModel != PricingWeekly && req.PricingModel != PricingPerTrip {
		response.BadRequest(w, "pricing_model must be semanal or por_trajeto")
		return
	}

	g, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.InternalError(w, "Failed to create group")
		return
	}

	response.JSON(w, http.StatusCreated, g)
}

// List handles GET /groups
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]Group}
// @Router       /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	groups, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list groups")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, groups, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID with members
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	g, members, err := h.service.GetByIDWithMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get group")
		return
	}

	response.JSON(w, http.StatusOK, &GroupResponse{Group: g, Members: members})
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a member to a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body Member true "Membership"
// @Success      201 {object} response.APIResponse{data=Member}
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var m Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	m.GroupID = groupID
	if m.ApprovalStatus == "" {
		m.ApprovalStatus = ApprovalPending
	}
	m.Active = true

	created, err := h.service.Join(r.Context(), &m)
	if err != nil {
		if errors.Is(err, ErrMemberAlreadyExists) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to add member")
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

// UpdateMemberApproval handles PUT /groups/members/{memberId}
// @Summary      Approve or reject a membership
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        memberId path int true "Member ID"
// @Param        request body UpdateMemberRequest true "Approval transition"
// @Success      200 {object} response.APIResponse{data=MemberProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/members/{memberId} [put]
func (h *Handler) UpdateMemberApproval(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ApprovalStatus != ApprovalApproved && req.ApprovalStatus != ApprovalRejected {
		response.BadRequest(w, "approval_status must be aprovado or rejeitado")
		return
	}

	p, err := h.service.UpdateMemberApproval(r.Context(), memberID, req.ApprovalStatus)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update member")
		return
	}

	response.JSON(w, http.StatusOK, p)
}

// RenewInviteLink handles POST /groups/{id}/invite-link/renew
// @Summary      Revoke and refetch the group's WhatsApp invite link
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/invite-link/renew [post]
func (h *Handler) RenewInviteLink(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	link, err := h.service.RenewInviteLink(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNoWhatsAppGroup):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to renew invite link")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"invite_link": link})
}
