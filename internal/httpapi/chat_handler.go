package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/vaishnavid04/Everwear/internal/domain"
)

type ChatOperations interface {
	Reply(ctx context.Context, ownerID, message string) (domain.Inquiry, error)
	ListInquiriesByOwner(ctx context.Context, ownerID string) ([]domain.Inquiry, error)
}

type ChatHandler struct {
	chat    ChatOperations
	timeout time.Duration
}

func NewChatHandler(chat ChatOperations, timeout time.Duration) *ChatHandler {
	return &ChatHandler{chat: chat, timeout: timeout}
}

type ChatRequestDTO struct {
	Message string `json:"message"`
}

type ChatResponseDTO struct {
	Reply string `json:"reply"`
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "message must not be empty")
		return
	}

	inquiry, err := h.chat.Reply(ctx, ownerID, req.Message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to answer")
		return
	}

	respondJSON(w, http.StatusOK, ChatResponseDTO{Reply: inquiry.BotResponse})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerIDFromContext(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	inquiries, err := h.chat.ListInquiriesByOwner(ctx, ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load chat history")
		return
	}

	if inquiries == nil {
		inquiries = []domain.Inquiry{}
	}
	respondJSON(w, http.StatusOK, inquiries)
}
