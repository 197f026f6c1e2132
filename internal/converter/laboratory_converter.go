package converter

import (
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
)

func LaboratoryToResponse(lab *entity.Laboratory) *dto.LaboratoryResponse {
	return &dto.LaboratoryResponse{
		ID:          lab.ID,
		Name:        lab.Name,
		ContactName: lab.ContactName,
		PhoneNumber: lab.PhoneNumber,
		Email:       lab.Email,
		Address:     lab.Address,
		Status:      string(lab.Status),
		CreatedAt:   lab.CreatedAt,
		UpdatedAt:   lab.UpdatedAt,
	}
}

func LaboratoriesToResponses(labs []entity.Laboratory) []dto.LaboratoryResponse {
	responses := make([]dto.LaboratoryResponse, 0, len(labs))
	for i := range labs {
		responses = append(responses, *LaboratoryToResponse(&labs[i]))
	}
	return responses
}

func LabOrderToResponse(order *entity.LaboratoryOrder) *dto.LabOrderResponse {
	history := make([]dto.LabOrderStatusResponse, 0, len(order.StatusHistory))
	for i := range order.StatusHistory {
		h := &order.StatusHistory[i]
		history = append(history, dto.LabOrderStatusResponse{
			Status:    string(h.Status),
			Notes:     h.Notes,
			ChangedBy: h.ChangedBy,
			CreatedAt: h.CreatedAt,
		})
	}

	return &dto.LabOrderResponse{
		ID:            order.ID,
		LaboratoryID:  order.LaboratoryID,
		PatientID:     order.PatientID,
		OrderID:       order.OrderID,
		SaleID:        order.SaleID,
		Status:        string(order.Status),
		Notes:         order.Notes,
		StatusHistory: history,
		CreatedBy:     order.CreatedBy,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func LabOrdersToResponses(orders []entity.LaboratoryOrder) []dto.LabOrderResponse {
	responses := make([]dto.LabOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *LabOrderToResponse(&orders[i]))
	}
	return responses
}
