package handlers

import (
	"encoding/json"
	"net/http"

	"courseta/models"
	"courseta/services/instructor"

	"github.com/gorilla/mux"
)

type InstructorHandler struct {
	service *instructor.Service
}

func NewInstructorHandler(service *instructor.Service) *InstructorHandler {
	return &InstructorHandler{service: service}
}

func (h *InstructorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/instructor/chat", h.Chat).Methods("POST")
}

// Chat runs one instructor analytics turn. The full message history,
// including tool calls and results from earlier turns, round-trips
// through the client.
func (h *InstructorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.InstructorAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(req.Messages) == 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "At least one message is required")
		return
	}

	response, err := h.service.ProcessMessage(req.Messages)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

func (h *InstructorHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *InstructorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
