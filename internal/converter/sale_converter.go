package converter

import (
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
)

func SaleToResponse(sale *entity.Sale) *dto.SaleResponse {
	payments := make([]dto.SalePaymentResponse, 0, len(sale.Payments))
	for i := range sale.Payments {
		p := &sale.Payments[i]
		payments = append(payments, dto.SalePaymentResponse{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			PaymentDate:     p.PaymentDate,
			Reference:       p.Reference,
			Notes:           p.Notes,
			CreatedAt:       p.CreatedAt,
		})
	}

	partials := make([]dto.SalePaymentResponse, 0, len(sale.PartialPayments))
	for i := range sale.PartialPayments {
		p := &sale.PartialPayments[i]
		partials = append(partials, dto.SalePaymentResponse{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			PaymentDate:     p.PaymentDate,
			Reference:       p.Reference,
			Notes:           p.Notes,
			CreatedAt:       p.CreatedAt,
		})
	}

	return &dto.SaleResponse{
		ID:              sale.ID,
		SaleNumber:      sale.SaleNumber,
		PatientID:       sale.PatientID,
		OrderID:         sale.OrderID,
		AppointmentID:   sale.AppointmentID,
		Subtotal:        sale.Subtotal,
		Tax:             sale.Tax,
		Discount:        sale.Discount,
		Total:           sale.Total,
		Balance:         sale.Balance,
		PaymentStatus:   string(sale.PaymentStatus),
		Status:          string(sale.Status),
		Notes:           sale.Notes,
		Payments:        payments,
		PartialPayments: partials,
		CreatedBy:       sale.CreatedBy,
		CancelledAt:     sale.CancelledAt,
		CreatedAt:       sale.CreatedAt,
		UpdatedAt:       sale.UpdatedAt,
	}
}

func SalesToResponses(sales []entity.Sale) []dto.SaleResponse {
	responses := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, *SaleToResponse(&sales[i]))
	}
	return responses
}
