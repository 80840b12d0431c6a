package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/service"
)

type ReviewHandler struct {
	reviewService   service.ReviewService
	favoriteService service.FavoriteService
	log             logger.Logger
}

func NewReviewHandler(reviewService service.ReviewService, favoriteService service.FavoriteService, log logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, favoriteService: favoriteService, log: log}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID string   `json:"listing_id"`
		Rating    int      `json:"rating"`
		Comment   string   `json:"comment"`
		PhotoURLs []string `json:"photo_urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewService.Create(r.Context(), userIDFromContext(r.Context()),
		req.ListingID, req.Rating, req.Comment, req.PhotoURLs)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	isFavorite, err := h.favoriteService.Toggle(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"is_favorite": isFavorite})
}

func (h *ReviewHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	listings, err := h.favoriteService.ListForUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listings)
}
