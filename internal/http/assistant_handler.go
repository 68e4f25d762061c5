package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AssistantChat matches service.AssistantClient so tests can stub the
// external text-generation service.
type AssistantChat interface {
	Chat(ctx context.Context, message string) (string, error)
}

// AssistantHandler forwards chat messages as-is. Stateless; no conversation
// history is kept on this side.
type AssistantHandler struct {
	client AssistantChat
	logger *zap.Logger
}

func NewAssistantHandler(client AssistantChat, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{client: client, logger: logger}
}

type chatPayload struct {
	Message string `json:"message"`
}

type chatReply struct {
	Reply string `json:"reply"`
}

func (h *AssistantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload chatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		writeFail(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.client.Chat(r.Context(), payload.Message)
	if err != nil {
		h.logger.Error("Assistant proxy call failed", zap.Error(err))
		writeFail(w, http.StatusBadGateway, err.Error())
		return
	}
	writeOK(w, chatReply{Reply: reply})
}
