package handlers

import (
	"encoding/json"
	"net/http"

	"courseta/models"
	"courseta/services"

	"github.com/gorilla/mux"
)

type AssignmentHandler struct {
	service *services.AssignmentService
}

func NewAssignmentHandler(service *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/assignments", h.CreateAssignment).Methods("POST")
	router.HandleFunc("/assignments/{id}", h.GetAssignmentByID).Methods("GET")
	router.HandleFunc("/assignments/{id}", h.UpdateAssignment).Methods("PUT")
	router.HandleFunc("/assignments/{id}", h.DeleteAssignment).Methods("DELETE")
	router.HandleFunc("/courses/{id}/assignments", h.GetAssignmentsByCourse).Methods("GET")
}

func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	assignment, err := h.service.CreateAssignment(&req)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignmentByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	assignment, err := h.service.GetAssignmentByID(vars["id"])
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve assignment")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) GetAssignmentsByCourse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	assignments, err := h.service.GetAssignmentsByCourse(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve assignments")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	assignment, err := h.service.UpdateAssignment(vars["id"], &req)
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteAssignment(vars["id"]); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete assignment")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AssignmentHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AssignmentHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
