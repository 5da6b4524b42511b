// Package minutes exposes the minutes-of-meeting generation endpoint.
package minutes

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	minutessvc "github.com/Fathima1123/mom-realtime/internal/service/minutes"
	"github.com/Fathima1123/mom-realtime/pkg/utils"
)

// Generator is the service surface this handler needs.
type Generator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

type Handler struct {
	svc Generator
}

func New(svc Generator) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-mom", h.handleGenerate)
}

type generateRequest struct {
	Transcript string `json:"transcript"`
}

type generateResponse struct {
	Mom string `json:"mom"`
}

// handleGenerate maps service errors onto the HTTP contract: bad input is
// the client's fault (400), upstream model failure is ours (500). A failure
// here never touches any live audio session.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mom, err := h.svc.Generate(r.Context(), req.Transcript)
	if err != nil {
		if errors.Is(err, minutessvc.ErrEmptyTranscript) {
			utils.RespondError(w, http.StatusBadRequest, "no transcript provided")
			return
		}
		log.Printf("[minutes] %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, generateResponse{Mom: mom})
}
