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

type MessageHandler struct {
	messageService service.MessageService
	log            logger.Logger
}

func NewMessageHandler(messageService service.MessageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, log: log}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		ListingID  string `json:"listing_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	message, err := h.messageService.Send(r.Context(), userIDFromContext(r.Context()),
		req.ReceiverID, req.ListingID, req.Content)
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) Chats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.messageService.Chats(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}

	type chatResponse struct {
		User         userResponse `json:"user"`
		LastMessage  string       `json:"last_message"`
		LastAt       time.Time    `json:"last_at"`
		ListingTitle string       `json:"listing_title,omitempty"`
		UnreadCount  int          `json:"unread_count"`
	}
	result := make([]chatResponse, len(chats))
	for i, chat := range chats {
		result[i] = chatResponse{
			User:         mapUserToResponse(chat.User),
			LastMessage:  chat.LastMessage,
			LastAt:       chat.LastAt,
			ListingTitle: chat.ListingTitle,
			UnreadCount:  chat.UnreadCount,
		}
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *MessageHandler) Dialog(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.Dialog(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, h.log, err)
		return
	}
	if messages == nil {
		messages = []entity.Message{}
	}
	respondWithJSON(w, http.StatusOK, messages)
}
