package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/service"
)

const maxPhotoUploadBytes = 10 << 20

type ListingHandler struct {
	listingService service.ListingService
	reviewService  service.ReviewService
	log            logger.Logger
}

func NewListingHandler(listingService service.ListingService, reviewService service.ReviewService, log logger.Logger) *ListingHandler {
	return &ListingHandler{listingService: listingService, reviewService: reviewService, log: log}
}

type createListingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	RentType     string   `json:"rent_type"`
	PropertyType string   `json:"property_type"`
	Country      string   `json:"country"`
	City         string   `json:"city"`
	District     string   `json:"district"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Guests       int      `json:"guests"`
	Area         *float64 `json:"area"`
	Amenities    []string `json:"amenities"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listingService.Create(r.Context(), userIDFromContext(r.Context()), service.CreateListingParams{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		RentType:     entity.RentType(req.RentType),
		PropertyType: req.PropertyType,
		Country:      req.Country,
		City:         req.City,
		District:     req.District,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Guests:       req.Guests,
		Area:         req.Area,
		Amenities:    req.Amenities,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listingService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	// Moderation status and authorship never change through this endpoint.
	delete(fields, "status")
	delete(fields, "author_id")
	delete(fields, "version")

	listing, err := h.listingService.Update(r.Context(), chi.URLParam(r, "id"), userIDFromContext(r.Context()), fields)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.listingService.Delete(r.Context(), chi.URLParam(r, "id"),
		userIDFromContext(r.Context()), isAdminFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := service.SearchListingsParams{
		Sort: r.URL.Query().Get("sort"),
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinPrice = &price
		}
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &price
		}
	}
	if v := r.URL.Query().Get("rent_type"); v != "" {
		params.RentType = entity.RentType(v)
	}
	if v := r.URL.Query().Get("amenities"); v != "" {
		params.Amenities = strings.Split(v, ",")
	}

	listings, err := h.listingService.Search(r.Context(), params)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingService.ListByAuthor(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "photo file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read photo"})
		return
	}

	url, err := h.listingService.UploadPhoto(r.Context(), chi.URLParam(r, "id"),
		userIDFromContext(r.Context()), header.Filename, data)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *ListingHandler) SetCalendarDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      time.Time `json:"date"`
		Price     *float64  `json:"price"`
		IsBlocked bool      `json:"is_blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	day, err := h.listingService.SetCalendarDay(r.Context(), chi.URLParam(r, "id"),
		userIDFromContext(r.Context()), service.SetCalendarDayParams{
			Date:      req.Date,
			Price:     req.Price,
			IsBlocked: req.IsBlocked,
		})
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

func (h *ListingHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	days, err := h.listingService.GetCalendar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, days)
}

func (h *ListingHandler) Discounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.listingService.Discounts(r.Context())
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}

	type discountResponse struct {
		Listing *entity.Listing `json:"listing"`
		Price   float64         `json:"price"`
		Dates   []time.Time     `json:"dates"`
	}
	result := make([]discountResponse, len(discounts))
	for i, d := range discounts {
		result[i] = discountResponse{Listing: d.Listing, Price: d.Price, Dates: d.Dates}
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *ListingHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListByListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

func (h *ListingHandler) Rating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.reviewService.Rating(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"average": rating.Average,
		"count":   rating.Count,
	})
}

func (h *ListingHandler) Locations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, service.Locations)
}
