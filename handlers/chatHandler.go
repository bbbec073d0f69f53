package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"courseta/models"
	"courseta/services/chat"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	service *chat.Service
}

func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.StartSession).Methods("POST")
	router.HandleFunc("/sessions/{id}/messages", h.GetSessionMessages).Methods("GET")
	router.HandleFunc("/sessions/{id}/concept-checks", h.GetSessionConceptChecks).Methods("GET")
	router.HandleFunc("/chat", h.Chat).Methods("POST")
	router.HandleFunc("/messages/{id}/saved", h.UpdateMessageSaved).Methods("PATCH")
	router.HandleFunc("/concept-checks/{id}/answer", h.AnswerConceptCheck).Methods("POST")
	router.HandleFunc("/concept-checks/{id}/saved", h.UpdateConceptCheckSaved).Methods("PATCH")
}

type startSessionRequest struct {
	CourseID     string `json:"course_id"`
	AssignmentID string `json:"assignment_id,omitempty"`
	StudentID    string `json:"student_id"`
}

func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	session, err := h.service.StartSession(req.CourseID, req.AssignmentID, req.StudentID)
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, session)
}

// Chat streams the assistant response as server-sent events. Each text
// delta arrives as data: {"text": ...}; the final frame before
// data: [DONE] carries the full turn result including any concept
// check.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendEvent := func(payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[ERROR] Failed to marshal SSE payload: %v", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	response, err := h.service.SendMessageStream(&req, func(token string) {
		sendEvent(map[string]string{"text": token})
	})
	if err != nil {
		log.Printf("[ERROR] Chat turn failed: %v", err)
		sendEvent(map[string]string{"error": err.Error()})
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
		return
	}

	sendEvent(map[string]any{"result": response})
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (h *ChatHandler) GetSessionMessages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	messages, err := h.service.GetSessionMessages(vars["id"])
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve messages")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, messages)
}

func (h *ChatHandler) GetSessionConceptChecks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	checks, err := h.service.GetSessionConceptChecks(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve concept checks")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, checks)
}

type updateSavedRequest struct {
	Saved bool `json:"saved"`
}

func (h *ChatHandler) UpdateMessageSaved(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateSavedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.service.UpdateMessageSaved(vars["id"], req.Saved); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to update message")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) AnswerConceptCheck(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.AnswerConceptCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	check, err := h.service.AnswerConceptCheck(vars["id"], req.StudentAnswer)
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, check)
}

func (h *ChatHandler) UpdateConceptCheckSaved(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req updateSavedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.service.UpdateConceptCheckSaved(vars["id"], req.Saved); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to update concept check")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *ChatHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
