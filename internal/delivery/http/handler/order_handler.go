package handler

import (
	"encoding/json"
	"net/http"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/usecase"
	"go-optical-clinic/pkg/response"
	"go-optical-clinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUsecase
	validator    *validator.CustomValidator
}

func NewOrderHandler(orderUsecase usecase.OrderUsecase, validator *validator.CustomValidator) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
		validator:    validator,
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.orderUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrProductNotFound:
			response.NotFound(w, "Product not found")
		case usecase.ErrOrderNoItems:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create order")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid order ID")
	if !ok {
		return
	}

	order, err := h.orderUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrOrderNotFound {
			response.NotFound(w, "Order not found")
			return
		}
		response.InternalServerError(w, "Failed to get order")
		return
	}

	response.Success(w, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	orders, err := h.orderUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetOrdersByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	orders, err := h.orderUsecase.GetByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid order ID")
	if !ok {
		return
	}

	order, err := h.orderUsecase.Complete(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case usecase.ErrOrderCancelled, usecase.ErrOrderAlreadyCompleted:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to complete order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order completed successfully", order)
}
