package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"courseta/services"

	"github.com/gorilla/mux"
)

const maxUploadBytes = 32 << 20 // 32 MiB

type MaterialHandler struct {
	service *services.MaterialService
}

func NewMaterialHandler(service *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: service}
}

func (h *MaterialHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/courses/{id}/materials", h.UploadMaterial).Methods("POST")
	router.HandleFunc("/courses/{id}/materials", h.GetMaterialsByCourse).Methods("GET")
	router.HandleFunc("/courses/{id}/materials/search", h.SearchMaterials).Methods("GET")
	router.HandleFunc("/courses/{id}/materials/reextract", h.ReextractMaterials).Methods("POST")
	router.HandleFunc("/materials/{id}", h.GetMaterialByID).Methods("GET")
	router.HandleFunc("/materials/{id}", h.DeleteMaterial).Methods("DELETE")
}

func (h *MaterialHandler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID := vars["id"]

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = "general"
	}

	material, err := h.service.UploadMaterial(courseID, header.Filename, category, data)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, material)
}

func (h *MaterialHandler) GetMaterialsByCourse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	materials, err := h.service.GetMaterialsByCourse(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve materials")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, materials)
}

func (h *MaterialHandler) SearchMaterials(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	query := r.URL.Query().Get("q")
	var terms []string
	if strings.TrimSpace(query) != "" {
		terms = strings.Fields(query)
	}

	materials, err := h.service.SearchMaterials(vars["id"], terms)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to search materials")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, materials)
}

func (h *MaterialHandler) ReextractMaterials(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	results, err := h.service.ReextractMaterials(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to re-extract materials")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, results)
}

func (h *MaterialHandler) GetMaterialByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	material, err := h.service.GetMaterialByID(vars["id"])
	if err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve material")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, material)
}

func (h *MaterialHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteMaterial(vars["id"]); err != nil {
		if isNotFound(err) {
			h.writeErrorResponse(w, http.StatusNotFound, err.Error())
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete material")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MaterialHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *MaterialHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
