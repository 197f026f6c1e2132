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

type SaleHandler struct {
	saleUsecase usecase.SaleUsecase
	validator   *validator.CustomValidator
}

func NewSaleHandler(saleUsecase usecase.SaleUsecase, validator *validator.CustomValidator) *SaleHandler {
	return &SaleHandler{
		saleUsecase: saleUsecase,
		validator:   validator,
	}
}

func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	sale, err := h.saleUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrPaymentMethodNotFound:
			response.NotFound(w, "Payment method not found")
		case usecase.ErrInvalidPaymentAmount, usecase.ErrPaymentExceedsBalance:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create sale")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Sale created successfully", sale)
}

func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid sale ID")
	if !ok {
		return
	}

	sale, err := h.saleUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrSaleNotFound {
			response.NotFound(w, "Sale not found")
			return
		}
		response.InternalServerError(w, "Failed to get sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale retrieved successfully", sale)
}

func (h *SaleHandler) GetAllSales(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	sales, err := h.saleUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get sales")
		return
	}

	response.Success(w, http.StatusOK, "Sales retrieved successfully", sales)
}

func (h *SaleHandler) GetSalesByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	sales, err := h.saleUsecase.GetByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get sales")
		return
	}

	response.Success(w, http.StatusOK, "Sales retrieved successfully", sales)
}

func (h *SaleHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid sale ID")
	if !ok {
		return
	}

	var req dto.SalePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	sale, err := h.saleUsecase.AddPayment(r.Context(), id, &req)
	if err != nil {
		h.writeLedgerError(w, err, "Failed to add payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment added successfully", sale)
}

func (h *SaleHandler) AddPartialPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid sale ID")
	if !ok {
		return
	}

	var req dto.SalePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	sale, err := h.saleUsecase.AddPartialPayment(r.Context(), id, &req)
	if err != nil {
		h.writeLedgerError(w, err, "Failed to add partial payment")
		return
	}

	response.Success(w, http.StatusOK, "Partial payment added successfully", sale)
}

func (h *SaleHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	saleID, paymentID, ok := h.parseSaleAndPaymentIDs(w, r)
	if !ok {
		return
	}

	sale, err := h.saleUsecase.RemovePayment(r.Context(), saleID, paymentID)
	if err != nil {
		h.writeLedgerError(w, err, "Failed to remove payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment removed successfully", sale)
}

func (h *SaleHandler) RemovePartialPayment(w http.ResponseWriter, r *http.Request) {
	saleID, paymentID, ok := h.parseSaleAndPaymentIDs(w, r)
	if !ok {
		return
	}

	sale, err := h.saleUsecase.RemovePartialPayment(r.Context(), saleID, paymentID)
	if err != nil {
		h.writeLedgerError(w, err, "Failed to remove partial payment")
		return
	}

	response.Success(w, http.StatusOK, "Partial payment removed successfully", sale)
}

func (h *SaleHandler) CancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid sale ID")
	if !ok {
		return
	}

	sale, err := h.saleUsecase.Cancel(r.Context(), id)
	if err != nil {
		h.writeLedgerError(w, err, "Failed to cancel sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale cancelled successfully", sale)
}

func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid sale ID")
	if !ok {
		return
	}

	if err := h.saleUsecase.Delete(r.Context(), id); err != nil {
		h.writeLedgerError(w, err, "Failed to delete sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale deleted successfully", nil)
}

func (h *SaleHandler) parseSaleAndPaymentIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	vars := mux.Vars(r)
	saleID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid sale ID", nil)
		return uuid.Nil, uuid.Nil, false
	}
	paymentID, err := uuid.Parse(vars["paymentId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payment ID", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return saleID, paymentID, true
}

func (h *SaleHandler) writeLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrSaleNotFound:
		response.NotFound(w, "Sale not found")
	case usecase.ErrPaymentNotFound:
		response.NotFound(w, "Payment not found")
	case usecase.ErrPaymentMethodNotFound:
		response.NotFound(w, "Payment method not found")
	case usecase.ErrSaleAlreadyCancelled, usecase.ErrSaleAlreadyRefunded:
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case usecase.ErrInvalidPaymentAmount, usecase.ErrPaymentExceedsBalance:
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case usecase.ErrPartialRemovalAdminOnly:
		response.Forbidden(w, "Only administrators can remove partial payments")
	default:
		response.InternalServerError(w, fallback)
	}
}
