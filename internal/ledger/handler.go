package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cajurona/backend/pkg/response"
)

// Handler handles HTTP requests for ledger operations
type Handler struct {
	service *Service
}

// NewHandler creates a new ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for ledger endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/members/{memberId}/balance", h.MemberBalance)
	r.Post("/payments", h.RegisterPayment)
	r.Get("/groups/{groupId}/transactions", h.ListGroupTransactions)

	return r
}

// RegisterPaymentRequest is the request body for recording a payment
type RegisterPaymentRequest struct {
	GroupID     int64   `json:"group_id" validate:"required"`
	MemberID    int64   `json:"member_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
	Description string  `json:"description,omitempty"`
}

// MemberBalance handles GET /ledger/members/{memberId}/balance
// @Summary      Get a member's balance
// @Tags         ledger
// @Produce      json
// @Param        memberId path int true "Member ID"
// @Success      200 {object} response.APIResponse{data=Balance}
// @Router       /ledger/members/{memberId}/balance [get]
func (h *Handler) MemberBalance(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	b, err := h.service.Balance(r.Context(), memberID)
	if err != nil {
		response.InternalError(w, "Failed to get balance")
		return
	}

	response.JSON(w, http.StatusOK, b)
}

// RegisterPayment handles POST /ledger/payments
// @Summary      Record a payment for a member
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body RegisterPaymentRequest true "Payment"
// @Success      201 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /ledger/payments [post]
func (h *Handler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	var req RegisterPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	msg, err := h.service.RegisterPayment(r.Context(), req.GroupID, req.MemberID, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to register payment")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{"message": msg})
}

// ListGroupTransactions handles GET /ledger/groups/{groupId}/transactions
// @Summary      List a group's transactions
// @Tags         ledger
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]Transaction}
// @Router       /ledger/groups/{groupId}/transactions [get]
func (h *Handler) ListGroupTransactions(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	transactions, total, err := h.service.ListByGroup(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list transactions")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, transactions, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}
