package handlers

import (
	"encoding/json"
	"net/http"

	"courseta/models"
	"courseta/services"

	"github.com/gorilla/mux"
)

type CourseHandler struct {
	service *services.CourseService
}

func NewCourseHandler(service *services.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses", h.CreateCourse).Methods("POST")
	router.HandleFunc("/courses", h.GetAllCourses).Methods("GET")
	router.HandleFunc("/courses/{id}", h.GetCourseByID).Methods("GET")
	router.HandleFunc("/courses/{id}/config", h.GetBotConfig).Methods("GET")
	router.HandleFunc("/courses/{id}/config", h.UpdateBotConfig).Methods("PUT")
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	course, err := h.service.CreateCourse(&req)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, course)
}

func (h *CourseHandler) GetAllCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.GetAllCourses()
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve courses")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, courses)
}

func (h *CourseHandler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	course, err := h.service.GetCourseByID(vars["id"])
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve course")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, course)
}

func (h *CourseHandler) GetBotConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	config, err := h.service.GetBotConfig(vars["id"])
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve bot config")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, config)
}

func (h *CourseHandler) UpdateBotConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.UpdateBotConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	config, err := h.service.UpdateBotConfig(vars["id"], &req)
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, config)
}

func (h *CourseHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *CourseHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
