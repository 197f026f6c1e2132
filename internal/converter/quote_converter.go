package converter

import (
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
)

func QuoteToResponse(quote *entity.Quote) *dto.QuoteResponse {
	items := make([]dto.QuoteItemResponse, 0, len(quote.Items))
	for i := range quote.Items {
		item := &quote.Items[i]
		items = append(items, dto.QuoteItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountID:         item.DiscountID,
			DiscountPercentage: item.DiscountPercentage,
			FinalUnitPrice:     item.FinalUnitPrice,
			Subtotal:           item.Subtotal,
			IsLens:             item.IsLens,
		})
	}

	return &dto.QuoteResponse{
		ID:          quote.ID,
		QuoteNumber: quote.QuoteNumber,
		PatientID:   quote.PatientID,
		Status:      string(quote.Status),
		Subtotal:    quote.Subtotal,
		Tax:         quote.Tax,
		Discount:    quote.Discount,
		Total:       quote.Total,
		ValidUntil:  quote.ValidUntil,
		Notes:       quote.Notes,
		Items:       items,
		CreatedBy:   quote.CreatedBy,
		CreatedAt:   quote.CreatedAt,
		UpdatedAt:   quote.UpdatedAt,
	}
}

func QuotesToResponses(quotes []entity.Quote) []dto.QuoteResponse {
	responses := make([]dto.QuoteResponse, 0, len(quotes))
	for i := range quotes {
		responses = append(responses, *QuoteToResponse(&quotes[i]))
	}
	return responses
}
