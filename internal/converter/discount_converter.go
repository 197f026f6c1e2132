package converter

import (
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
)

func DiscountToResponse(discount *entity.DiscountRequest) *dto.DiscountResponse {
	return &dto.DiscountResponse{
		ID:                 discount.ID,
		RequestedBy:        discount.RequestedBy,
		ProductID:          discount.ProductID,
		PatientID:          discount.PatientID,
		ApprovedBy:         discount.ApprovedBy,
		DiscountPercentage: discount.DiscountPercentage,
		DiscountedPrice:    discount.DiscountedPrice,
		Status:             string(discount.Status),
		Reason:             discount.Reason,
		ExpiryDate:         discount.ExpiryDate,
		IsGlobal:           discount.IsGlobal,
		CreatedAt:          discount.CreatedAt,
		UpdatedAt:          discount.UpdatedAt,
	}
}

func DiscountsToResponses(discounts []entity.DiscountRequest) []dto.DiscountResponse {
	responses := make([]dto.DiscountResponse, 0, len(discounts))
	for i := range discounts {
		responses = append(responses, *DiscountToResponse(&discounts[i]))
	}
	return responses
}
