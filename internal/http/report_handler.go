package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// ReportService is the subset of facade operations the reporting endpoints use.
type ReportService interface {
	RatingsSummary(ctx context.Context, window domain.DateRange) ([]*domain.VinylRatingSummary, error)
	SalesOverview(ctx context.Context, filter domain.SalesFilter) ([]*domain.SalesSummaryRow, []*domain.SalesDetailRow, error)
}

type ReportHandler struct {
	service ReportService
	logger  logger.Logger
}

func NewReportHandler(service ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/reports.ratings", h.handleRatings)
	mux.HandleFunc("/api/reports.sales", h.handleSales)
}

func (h *ReportHandler) handleRatings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	window, err := parseDateRange(r.URL.Query())
	if err != nil {
		WriteJSONError(w, "Invalid date range, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summaries, err := h.service.RatingsSummary(r.Context(), window)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to build ratings summary")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ratings": summaries,
	})
}

func (h *ReportHandler) handleSales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := r.URL.Query()
	window, err := parseDateRange(params)
	if err != nil {
		WriteJSONError(w, "Invalid date range, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	filter := domain.SalesFilter{
		ArtistName: params.Get("artist"),
		Genre:      params.Get("genre"),
		Window:     window,
	}

	summary, details, err := h.service.SalesOverview(r.Context(), filter)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to build sales overview")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"details": details,
	})
}

// parseDateRange reads the optional start/end query parameters. Either bound
// may be absent; a present but malformed bound is an error.
func parseDateRange(params url.Values) (domain.DateRange, error) {
	var window domain.DateRange

	if raw := params.Get("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.DateRange{}, err
		}
		window.Start = &start
	}
	if raw := params.Get("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.DateRange{}, err
		}
		window.End = &end
	}
	return window, nil
}
