package handler

import (
	"encoding/json"
	"net/http"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/usecase"
	"go-optical-clinic/pkg/response"
	"go-optical-clinic/pkg/validator"
)

type LaboratoryHandler struct {
	laboratoryUsecase usecase.LaboratoryUsecase
	validator         *validator.CustomValidator
}

func NewLaboratoryHandler(laboratoryUsecase usecase.LaboratoryUsecase, validator *validator.CustomValidator) *LaboratoryHandler {
	return &LaboratoryHandler{
		laboratoryUsecase: laboratoryUsecase,
		validator:         validator,
	}
}

func (h *LaboratoryHandler) CreateLaboratory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLaboratoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	lab, err := h.laboratoryUsecase.CreateLaboratory(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create laboratory")
		return
	}

	response.Success(w, http.StatusCreated, "Laboratory created successfully", lab)
}

func (h *LaboratoryHandler) GetLaboratory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid laboratory ID")
	if !ok {
		return
	}

	lab, err := h.laboratoryUsecase.GetLaboratory(r.Context(), id)
	if err != nil {
		if err == usecase.ErrLaboratoryNotFound {
			response.NotFound(w, "Laboratory not found")
			return
		}
		response.InternalServerError(w, "Failed to get laboratory")
		return
	}

	response.Success(w, http.StatusOK, "Laboratory retrieved successfully", lab)
}

func (h *LaboratoryHandler) GetAllLaboratories(w http.ResponseWriter, r *http.Request) {
	labs, err := h.laboratoryUsecase.GetLaboratories(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get laboratories")
		return
	}

	response.Success(w, http.StatusOK, "Laboratories retrieved successfully", labs)
}

func (h *LaboratoryHandler) UpdateLaboratory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid laboratory ID")
	if !ok {
		return
	}

	var req dto.UpdateLaboratoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	lab, err := h.laboratoryUsecase.UpdateLaboratory(r.Context(), id, &req)
	if err != nil {
		if err == usecase.ErrLaboratoryNotFound {
			response.NotFound(w, "Laboratory not found")
			return
		}
		response.InternalServerError(w, "Failed to update laboratory")
		return
	}

	response.Success(w, http.StatusOK, "Laboratory updated successfully", lab)
}

func (h *LaboratoryHandler) DeactivateLaboratory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid laboratory ID")
	if !ok {
		return
	}

	lab, err := h.laboratoryUsecase.Deactivate(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrLaboratoryNotFound:
			response.NotFound(w, "Laboratory not found")
		case usecase.ErrLaboratoryHasOpenOrders:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to deactivate laboratory")
		}
		return
	}

	response.Success(w, http.StatusOK, "Laboratory deactivated successfully", lab)
}

func (h *LaboratoryHandler) GetLabOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid laboratory order ID")
	if !ok {
		return
	}

	order, err := h.laboratoryUsecase.GetOrder(r.Context(), id)
	if err != nil {
		if err == usecase.ErrLabOrderNotFound {
			response.NotFound(w, "Laboratory order not found")
			return
		}
		response.InternalServerError(w, "Failed to get laboratory order")
		return
	}

	response.Success(w, http.StatusOK, "Laboratory order retrieved successfully", order)
}

func (h *LaboratoryHandler) GetAllLabOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	orders, err := h.laboratoryUsecase.GetOrders(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get laboratory orders")
		return
	}

	response.Success(w, http.StatusOK, "Laboratory orders retrieved successfully", orders)
}

func (h *LaboratoryHandler) UpdateLabOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid laboratory order ID")
	if !ok {
		return
	}

	var req dto.UpdateLabOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.laboratoryUsecase.UpdateOrderStatus(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrLabOrderNotFound:
			response.NotFound(w, "Laboratory order not found")
		case usecase.ErrLabOrderInvalidStatus:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update laboratory order status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Laboratory order status updated successfully", order)
}

func (h *LaboratoryHandler) DeleteLabOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid laboratory order ID")
	if !ok {
		return
	}

	if err := h.laboratoryUsecase.DeleteOrder(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrLabOrderNotFound:
			response.NotFound(w, "Laboratory order not found")
		case usecase.ErrLabOrderNotDeletable:
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to delete laboratory order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Laboratory order deleted successfully", nil)
}
