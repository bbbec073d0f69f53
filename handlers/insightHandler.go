package handlers

import (
	"encoding/json"
	"net/http"

	"courseta/services"

	"github.com/gorilla/mux"
)

type InsightHandler struct {
	service *services.InsightService
}

func NewInsightHandler(service *services.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

func (h *InsightHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{id}/insights", h.GetCourseInsights).Methods("GET")
}

func (h *InsightHandler) GetCourseInsights(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	insight, err := h.service.GetCourseInsights(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to compute insights")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, insight)
}

func (h *InsightHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *InsightHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
