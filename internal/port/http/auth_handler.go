package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	log         logger.Logger
}

func NewAuthHandler(authService service.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Role       string    `json:"role"`
	IsBanned   bool      `json:"is_banned"`
	IsVerified bool      `json:"is_verified"`
	LastSeen   time.Time `json:"last_seen"`
	CreatedAt  time.Time `json:"created_at"`
}

func mapUserToResponse(user *entity.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Phone:      user.Phone,
		AvatarURL:  user.AvatarURL,
		Role:       string(user.Role),
		IsBanned:   user.IsBanned,
		IsVerified: user.IsVerified,
		LastSeen:   user.LastSeen,
		CreatedAt:  user.CreatedAt,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	userID, err := h.authService.Register(r.Context(), service.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"id": userID})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  mapUserToResponse(user),
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapUserToResponse(user))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userIDFromContext(r.Context()), service.UpdateProfileParams{
		Name:      req.Name,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapUserToResponse(user))
}

func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "avatar file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read avatar"})
		return
	}

	user, err := h.authService.UploadAvatar(r.Context(), userIDFromContext(r.Context()),
		header.Filename, data)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapUserToResponse(user))
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userIDFromContext(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "changed"})
}
