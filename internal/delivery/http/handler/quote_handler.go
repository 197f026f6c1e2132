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

type QuoteHandler struct {
	quoteUsecase usecase.QuoteUsecase
	validator    *validator.CustomValidator
}

func NewQuoteHandler(quoteUsecase usecase.QuoteUsecase, validator *validator.CustomValidator) *QuoteHandler {
	return &QuoteHandler{
		quoteUsecase: quoteUsecase,
		validator:    validator,
	}
}

func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	quote, err := h.quoteUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrProductNotFound:
			response.NotFound(w, "Product not found")
		case usecase.ErrQuoteNoItems:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create quote")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Quote created successfully", quote)
}

func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid quote ID")
	if !ok {
		return
	}

	quote, err := h.quoteUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrQuoteNotFound {
			response.NotFound(w, "Quote not found")
			return
		}
		response.InternalServerError(w, "Failed to get quote")
		return
	}

	response.Success(w, http.StatusOK, "Quote retrieved successfully", quote)
}

func (h *QuoteHandler) GetAllQuotes(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	quotes, err := h.quoteUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get quotes")
		return
	}

	response.Success(w, http.StatusOK, "Quotes retrieved successfully", quotes)
}

func (h *QuoteHandler) GetQuotesByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	quotes, err := h.quoteUsecase.GetByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get quotes")
		return
	}

	response.Success(w, http.StatusOK, "Quotes retrieved successfully", quotes)
}

func (h *QuoteHandler) ApproveQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid quote ID")
	if !ok {
		return
	}

	quote, err := h.quoteUsecase.Approve(r.Context(), id)
	if err != nil {
		h.writeQuoteError(w, err, "Failed to approve quote")
		return
	}

	response.Success(w, http.StatusOK, "Quote approved successfully", quote)
}

func (h *QuoteHandler) RejectQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid quote ID")
	if !ok {
		return
	}

	quote, err := h.quoteUsecase.Reject(r.Context(), id)
	if err != nil {
		h.writeQuoteError(w, err, "Failed to reject quote")
		return
	}

	response.Success(w, http.StatusOK, "Quote rejected successfully", quote)
}

func (h *QuoteHandler) ConvertQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid quote ID")
	if !ok {
		return
	}

	order, err := h.quoteUsecase.Convert(r.Context(), id)
	if err != nil {
		h.writeQuoteError(w, err, "Failed to convert quote")
		return
	}

	response.Success(w, http.StatusCreated, "Quote converted to order successfully", order)
}

func (h *QuoteHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid quote ID")
	if !ok {
		return
	}

	if err := h.quoteUsecase.Delete(r.Context(), id); err != nil {
		h.writeQuoteError(w, err, "Failed to delete quote")
		return
	}

	response.Success(w, http.StatusOK, "Quote deleted successfully", nil)
}

func (h *QuoteHandler) writeQuoteError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrQuoteNotFound:
		response.NotFound(w, "Quote not found")
	case usecase.ErrQuoteNotPending, usecase.ErrQuoteNotConvertible, usecase.ErrQuoteExpired:
		response.Error(w, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
