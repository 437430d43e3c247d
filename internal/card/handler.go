package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"notewall/internal/card/model"
	"notewall/internal/card/service"
	"notewall/middleware"
	"notewall/pkg/logger"
)

type CardHandler struct {
	Service *service.CardService
}

func NewCardHandler(service *service.CardService) *CardHandler {
	return &CardHandler{Service: service}
}

func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cards, err := h.Service.ListCards()
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to list cards: %v", err)
		http.Error(w, "Failed to load cards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Context().Value(middleware.UserIDKey).(string)

	var req model.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	card, err := h.Service.CreateCard(userID, req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create card: %v", err)
		http.Error(w, "Failed to create card: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

func (h *CardHandler) MoveCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.MoveCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.MoveCard(req); err != nil {
		logger.Sugar.Errorf("Handler: Failed to move card %d: %v", req.ID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Position updated"))
}

func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "Missing or invalid id parameter", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteCard(id); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete card %d: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Card deleted"))
}

func (h *CardHandler) ClearWall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.Service.ClearWall(); err != nil {
		logger.Sugar.Errorf("Handler: Failed to clear the wall: %v", err)
		http.Error(w, "Failed to clear the wall", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Wall cleared"))
}

// Health is the connectivity probe clients hit before loading the wall.
func (h *CardHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.Service.Healthy(); err != nil {
		logger.Sugar.Errorf("Health check failed: %v", err)
		http.Error(w, "Store unreachable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
