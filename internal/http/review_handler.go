package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

// ReviewService is the subset of facade operations the review endpoints use.
type ReviewService interface {
	SubmitReview(ctx context.Context, input domain.ReviewInput) error
	GetReview(ctx context.Context, userID, vinylID int64) (*domain.ReviewView, error)
	DeleteReview(ctx context.Context, userID, vinylID int64) (bool, error)
}

type ReviewHandler struct {
	service ReviewService
	logger  logger.Logger
}

func NewReviewHandler(service ReviewService, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

type submitReviewRequest struct {
	UserID  int64  `json:"user_id"`
	VinylID int64  `json:"vinyl_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type deleteReviewRequest struct {
	UserID  int64 `json:"user_id"`
	VinylID int64 `json:"vinyl_id"`
}

func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/reviews.create", h.handleCreate)
	mux.HandleFunc("/api/reviews.get", h.handleGet)
	mux.HandleFunc("/api/reviews.delete", h.handleDelete)
}

func (h *ReviewHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input := domain.ReviewInput{
		UserID:  req.UserID,
		VinylID: req.VinylID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := input.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.service.SubmitReview(r.Context(), input); err != nil {
		h.logger.WithFields(map[string]interface{}{
			"user_id":  req.UserID,
			"vinyl_id": req.VinylID,
			"error":    err.Error(),
		}).Error("Failed to submit review")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

func (h *ReviewHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, vinylID, ok := reviewKey(r)
	if !ok {
		WriteJSONError(w, "Missing user or vinyl ID", http.StatusBadRequest)
		return
	}

	review, err := h.service.GetReview(r.Context(), userID, vinylID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get review")
		writeDomainError(w, err)
		return
	}

	// No review for the pair is a regular empty result, not a 404.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"review": review,
	})
}

func (h *ReviewHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.VinylID <= 0 {
		WriteJSONError(w, "Missing user or vinyl ID", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.DeleteReview(r.Context(), req.UserID, req.VinylID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to delete review")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func reviewKey(r *http.Request) (userID, vinylID int64, ok bool) {
	params := r.URL.Query()
	userID, err := strconv.ParseInt(params.Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, 0, false
	}
	vinylID, err = strconv.ParseInt(params.Get("vinyl_id"), 10, 64)
	if err != nil || vinylID <= 0 {
		return 0, 0, false
	}
	return userID, vinylID, true
}
