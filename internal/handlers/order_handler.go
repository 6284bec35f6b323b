package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/services"
	"orderflow-backend/internal/timeutil"
	"orderflow-backend/pkg/utils"
)

type OrderHandler struct {
	Service *services.OrderService
}

func NewOrderHandler(s *services.OrderService) *OrderHandler {
	return &OrderHandler{Service: s}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	order, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetOrderByPONumber(w http.ResponseWriter, r *http.Request) {
	poNumber := mux.Vars(r)["po"]

	order, err := h.Service.GetByPONumber(r.Context(), poNumber)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := orderFilterFromQuery(r)

	orders, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	var req models.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func orderFilterFromQuery(r *http.Request) models.OrderFilter {
	q := r.URL.Query()
	filter := models.OrderFilter{
		OrderStatus:   q.Get("order_status"),
		PaymentStatus: q.Get("payment_status"),
	}
	if storeID, err := strconv.Atoi(q.Get("store_id")); err == nil {
		filter.StoreID = storeID
	}
	if from := q.Get("from"); from != "" {
		if t, err := timeutil.ParseInEastern(timeutil.DateLayout, from); err == nil {
			filter.FromDate = &t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := timeutil.ParseInEastern(timeutil.DateLayout, to); err == nil {
			end := timeutil.EndOfDay(t)
			filter.ToDate = &end
		}
	}
	return filter
}
