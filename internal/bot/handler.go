package bot

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cajurona/backend/internal/intent"
	"github.com/cajurona/backend/pkg/response"
)

// Handler handles HTTP requests for the bot surface
type Handler struct {
	service *Service
}

// NewHandler creates a new bot handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Webhook handles POST /webhook
//
// The gateway retries on non-2xx responses, so every structurally
// readable request is acknowledged with 200 even when the payload is
// not a message we care about.
//
// @Summary      Receive a gateway message event
// @Tags         bot
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /webhook [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	h.service.HandleMessage(r.Context(), payload.Normalize())

	response.JSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// Health handles GET /health
// @Summary      Health check
// @Tags         bot
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Test handles POST /test. It classifies the text and echoes the intent
// without touching any state, for poking at the classifier by hand.
// @Summary      Classify a message without side effects
// @Tags         bot
// @Accept       json
// @Produce      json
// @Param        request body TestRequest true "Message"
// @Success      200 {object} response.APIResponse{data=intent.Intent}
// @Router       /test [post]
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Texto == "" {
		response.BadRequest(w, "texto is required")
		return
	}

	response.JSON(w, http.StatusOK, intent.Classify(req.Texto))
}
