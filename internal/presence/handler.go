package presence

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/pkg/response"
)

// Handler handles HTTP requests for presence operations
type Handler struct {
	service *Service
	groups  *group.Service
}

// NewHandler creates a new presence handler
func NewHandler(service *Service, groups *group.Service) *Handler {
	return &Handler{service: service, groups: groups}
}

// Routes returns the router for presence endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/groups/{groupId}/status", h.GroupStatusToday)

	return r
}

// GroupStatusToday handles GET /presence/groups/{groupId}/status
// @Summary      Today's attendance summary for a group
// @Tags         presence
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /presence/groups/{groupId}/status [get]
func (h *Handler) GroupStatusToday(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	g, err := h.groups.GetByID(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get group")
		return
	}

	msg, err := h.service.StatusToday(r.Context(), g)
	if err != nil {
		response.InternalError(w, "Failed to get status")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": msg})
}
