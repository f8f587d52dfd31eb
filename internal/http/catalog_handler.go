package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// CatalogService is the subset of facade operations the catalogue endpoints use.
type CatalogService interface {
	ListVinyls(ctx context.Context, limit int) ([]*domain.VinylView, error)
	SearchVinyls(ctx context.Context, query string) ([]*domain.VinylView, error)
	AdminSearchVinyls(ctx context.Context, filter domain.CatalogFilter) ([]*domain.VinylView, []string, error)
	InsertVinyl(ctx context.Context, input domain.VinylInput) (int64, error)
	DeleteVinyl(ctx context.Context, vinylID int64) error
}

type CatalogHandler struct {
	service CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

const defaultListLimit = 9

type createVinylRequest struct {
	ArtistID    int64   `json:"artist_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	ReleaseDate string  `json:"release_date"`
	CoverImage  string  `json:"cover_image,omitempty"`
	Genre       string  `json:"genre"`
}

type deleteVinylRequest struct {
	VinylID int64 `json:"vinyl_id"`
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/catalog.list", h.handleList)
	mux.HandleFunc("/api/catalog.search", h.handleSearch)
	mux.HandleFunc("/api/catalog.adminSearch", h.handleAdminSearch)
	mux.HandleFunc("/api/catalog.create", h.handleCreate)
	mux.HandleFunc("/api/catalog.delete", h.handleDelete)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	vinyls, err := h.service.ListVinyls(r.Context(), limit)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list vinyls")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vinyls": vinyls,
	})
}

func (h *CatalogHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	vinyls, err := h.service.SearchVinyls(r.Context(), query)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to search vinyls")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vinyls": vinyls,
	})
}

func (h *CatalogHandler) handleAdminSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Raw strings pass straight through; malformed numeric filters mean
	// "no filter" rather than an error.
	params := r.URL.Query()
	filter := domain.CatalogFilter{
		Genre:    params.Get("genre"),
		Artist:   params.Get("artist"),
		MinPrice: params.Get("min_price"),
		MaxPrice: params.Get("max_price"),
		VinylID:  params.Get("vinyl_id"),
	}

	vinyls, genres, err := h.service.AdminSearchVinyls(r.Context(), filter)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to run admin catalogue search")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vinyls": vinyls,
		"genres": genres,
	})
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createVinylRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		WriteJSONError(w, "Invalid release date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	input := domain.VinylInput{
		ArtistID:    req.ArtistID,
		Title:       req.Title,
		Price:       req.Price,
		ReleaseDate: releaseDate,
		CoverImage:  req.CoverImage,
		Genre:       req.Genre,
	}
	if err := input.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := h.service.InsertVinyl(r.Context(), input)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to insert vinyl")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"vinyl_id": id,
	})
}

func (h *CatalogHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteVinylRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VinylID <= 0 {
		WriteJSONError(w, "Missing vinyl ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteVinyl(r.Context(), req.VinylID); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to delete vinyl")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
