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

type DiscountHandler struct {
	discountUsecase usecase.DiscountUsecase
	validator       *validator.CustomValidator
}

func NewDiscountHandler(discountUsecase usecase.DiscountUsecase, validator *validator.CustomValidator) *DiscountHandler {
	return &DiscountHandler{
		discountUsecase: discountUsecase,
		validator:       validator,
	}
}

func (h *DiscountHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	discount, err := h.discountUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrProductNotFound:
			response.NotFound(w, "Product not found")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrDiscountInvalidPercent:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create discount request")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Discount request created successfully", discount)
}

func (h *DiscountHandler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid discount ID")
	if !ok {
		return
	}

	discount, err := h.discountUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrDiscountNotFound {
			response.NotFound(w, "Discount request not found")
			return
		}
		response.InternalServerError(w, "Failed to get discount request")
		return
	}

	response.Success(w, http.StatusOK, "Discount request retrieved successfully", discount)
}

func (h *DiscountHandler) GetAllDiscounts(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	discounts, err := h.discountUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get discount requests")
		return
	}

	response.Success(w, http.StatusOK, "Discount requests retrieved successfully", discounts)
}

func (h *DiscountHandler) GetPendingDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.discountUsecase.GetPending(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get pending discount requests")
		return
	}

	response.Success(w, http.StatusOK, "Pending discount requests retrieved successfully", discounts)
}

func (h *DiscountHandler) ApproveDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid discount ID")
	if !ok {
		return
	}

	discount, err := h.discountUsecase.Approve(r.Context(), id)
	if err != nil {
		h.writeDecisionError(w, err, "Failed to approve discount request")
		return
	}

	response.Success(w, http.StatusOK, "Discount request approved successfully", discount)
}

func (h *DiscountHandler) RejectDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid discount ID")
	if !ok {
		return
	}

	discount, err := h.discountUsecase.Reject(r.Context(), id)
	if err != nil {
		h.writeDecisionError(w, err, "Failed to reject discount request")
		return
	}

	response.Success(w, http.StatusOK, "Discount request rejected successfully", discount)
}

func (h *DiscountHandler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid discount ID")
	if !ok {
		return
	}

	if err := h.discountUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrDiscountNotFound:
			response.NotFound(w, "Discount request not found")
		case usecase.ErrDiscountDeleteNotAllowed:
			response.Forbidden(w, "Only pending discount requests can be deleted")
		default:
			response.InternalServerError(w, "Failed to delete discount request")
		}
		return
	}

	response.Success(w, http.StatusOK, "Discount request deleted successfully", nil)
}

// ResolvePrice prices a product for an optional patient without
// persisting anything.
func (h *DiscountHandler) ResolvePrice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := uuid.Parse(vars["productId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	var patientID *uuid.UUID
	if raw := r.URL.Query().Get("patient_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
			return
		}
		patientID = &parsed
	}

	quote, err := h.discountUsecase.ResolvePrice(r.Context(), productID, patientID)
	if err != nil {
		if err == usecase.ErrProductNotFound {
			response.NotFound(w, "Product not found")
			return
		}
		response.InternalServerError(w, "Failed to resolve price")
		return
	}

	response.Success(w, http.StatusOK, "Price resolved successfully", quote)
}

func (h *DiscountHandler) writeDecisionError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrDiscountNotFound:
		response.NotFound(w, "Discount request not found")
	case usecase.ErrDiscountNotPending:
		response.Error(w, http.StatusConflict, "Discount request has already been decided", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
