package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/services"
	"orderflow-backend/pkg/utils"
)

const maxImportSize = 10 << 20 // 10MB upload cap for spreadsheet imports

type ContainerHandler struct {
	Service *services.ContainerService
}

func NewContainerHandler(s *services.ContainerService) *ContainerHandler {
	return &ContainerHandler{Service: s}
}

func (h *ContainerHandler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, result)
}

func (h *ContainerHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	container, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, container)
}

func (h *ContainerHandler) ListContainers(w http.ResponseWriter, r *http.Request) {
	containers, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, containers)
}

func (h *ContainerHandler) UpdateContainer(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	var req models.UpdateContainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	container, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, container)
}

func (h *ContainerHandler) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportContainer accepts a multipart form with a "file" field holding an
// xlsx manifest, plus optional "status" and "shipping_cost" fields.
func (h *ContainerHandler) ImportContainer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	status := r.FormValue("status")
	shippingCost, _ := strconv.ParseFloat(r.FormValue("shipping_cost"), 64)

	result, err := h.Service.ImportSpreadsheet(r.Context(), file, status, shippingCost)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, result)
}
