package converter

import (
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
)

func OrderToResponse(order *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, dto.OrderItemResponse{
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

	return &dto.OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		QuoteID:       order.QuoteID,
		PatientID:     order.PatientID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Total:         order.Total,
		Notes:         order.Notes,
		Items:         items,
		CreatedBy:     order.CreatedBy,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func OrdersToResponses(orders []entity.Order) []dto.OrderResponse {
	responses := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *OrderToResponse(&orders[i]))
	}
	return responses
}
