package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
	log            logger.Logger
}

func NewBookingHandler(bookingService service.BookingService, log logger.Logger) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, log: log}
}

type bookingResponse struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	RenterID   string    `json:"renter_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func mapBookingToResponse(booking *entity.Booking) bookingResponse {
	return bookingResponse{
		ID:         booking.ID,
		ListingID:  booking.ListingID,
		RenterID:   booking.RenterID,
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
}

func mapBookingsToResponse(bookings []entity.Booking) []bookingResponse {
	result := make([]bookingResponse, len(bookings))
	for i := range bookings {
		result[i] = mapBookingToResponse(&bookings[i])
	}
	return result
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID string    `json:"listing_id"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), service.CreateBookingParams{
		ListingID: req.ListingID,
		RenterID:  userIDFromContext(r.Context()),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, mapBookingToResponse(booking))
}

// UpdateStatus is the transition endpoint: the actor asks for a target
// status and the service decides whether their role allows it.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.RequestTransition(r.Context(), bookingID,
		userIDFromContext(r.Context()), entity.BookingStatus(req.Status))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapBookingToResponse(booking))
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.GetByID(r.Context(), chi.URLParam(r, "id"),
		userIDFromContext(r.Context()), isAdminFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapBookingToResponse(booking))
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListForRenter(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapBookingsToResponse(bookings))
}

// ListActiveForListing is public: clients use it to grey out occupied dates.
func (h *BookingHandler) ListActiveForListing(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListActiveForListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapBookingsToResponse(bookings))
}

func (h *BookingHandler) ListForMyListings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListForOwner(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapBookingsToResponse(bookings))
}
