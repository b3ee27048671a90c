package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paydown/backend/internal/models"
)

type SummaryReader interface {
	Summary(ctx context.Context, userID string) (*models.Summary, error)
}

type SummaryHandler struct {
	summaries SummaryReader
}

func NewSummaryHandler(summaries SummaryReader) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

func (h *SummaryHandler) Routes(r chi.Router) {
	r.Get("/summary", h.GetSummary)
}

// GetSummary returns repayment progress aggregates
// @Summary Repayment summary
// @Description Totals, per-debt progress, this month's payments, the next two due dates and the recent payment trend
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Summary
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.summaries.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, "SUMMARY", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
