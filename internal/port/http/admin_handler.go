package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
	log          logger.Logger
}

func NewAdminHandler(adminService service.AdminService, log logger.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, log: log}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"users":            stats.Users,
		"listings":         stats.Listings,
		"revenue":          stats.Revenue,
		"revenue_by_month": stats.RevenueByMonth,
		"pending_reports":  stats.PendingReports,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}

	result := make([]userResponse, len(users))
	for i := range users {
		result[i] = mapUserToResponse(&users[i])
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.adminService.ListBookings(r.Context())
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapBookingsToResponse(bookings))
}

func (h *AdminHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.adminService.ListListings(r.Context())
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listings)
}

func (h *AdminHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Banned bool `json:"banned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.adminService.SetBanned(r.Context(), userIDFromContext(r.Context()),
		chi.URLParam(r, "id"), req.Banned)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapUserToResponse(user))
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	// Credentials never change through this endpoint.
	delete(fields, "_id")
	delete(fields, "password_hash")
	delete(fields, "verification_code")

	user, err := h.adminService.UpdateUser(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapUserToResponse(user))
}

func (h *AdminHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	delete(fields, "_id")
	delete(fields, "author_id")
	delete(fields, "version")

	listing, err := h.adminService.UpdateListing(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.DeleteUser(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ModerateListing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.adminService.ModerateListing(r.Context(), chi.URLParam(r, "id"),
		entity.ListingStatus(req.Status))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listing)
}

func (h *AdminHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID string `json:"listing_id"`
		UserID    string `json:"user_id"`
		Reason    string `json:"reason"`
		Details   string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	report, err := h.adminService.CreateReport(r.Context(), userIDFromContext(r.Context()),
		req.ListingID, req.UserID, req.Reason, req.Details)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, report)
}

func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.adminService.ListReports(r.Context())
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}

func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.adminService.ResolveReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
