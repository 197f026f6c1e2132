package service

import (
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LabOrderRequest carries the lab-relevant part of a sale-creation
// payload into the trigger decision.
type LabOrderRequest struct {
	LaboratoryID   *uuid.UUID
	Notes          string
	ContainsLenses bool
	HasLensItems   bool
}

// LabOrderService decides at sale-creation time whether a fabrication
// order must be opened at a laboratory, and opens it. It runs once per
// sale and never on later payment changes.
type LabOrderService struct {
	log          *logrus.Logger
	labRepo      repository.LaboratoryRepository
	labOrderRepo repository.LaboratoryOrderRepository
	orderRepo    repository.OrderRepository
}

func NewLabOrderService(
	log *logrus.Logger,
	labRepo repository.LaboratoryRepository,
	labOrderRepo repository.LaboratoryOrderRepository,
	orderRepo repository.OrderRepository,
) *LabOrderService {
	return &LabOrderService{
		log:          log,
		labRepo:      labRepo,
		labOrderRepo: labOrderRepo,
		orderRepo:    orderRepo,
	}
}

// NeedsLabOrder is true if a laboratory was named explicitly, the
// linked order contains a lens-bearing item, or the creation payload
// flagged lens content.
func (s *LabOrderService) NeedsLabOrder(tx *gorm.DB, sale *entity.Sale, req *LabOrderRequest) (bool, error) {
	if req != nil {
		if req.LaboratoryID != nil {
			return true, nil
		}
		if req.ContainsLenses || req.HasLensItems {
			return true, nil
		}
	}

	if sale.OrderID != nil {
		items, err := s.orderRepo.FindItems(tx, *sale.OrderID)
		if err != nil {
			s.log.Warnf("Failed to inspect items of order %s: %+v", *sale.OrderID, err)
			return false, err
		}
		for _, item := range items {
			if item.IsLens {
				return true, nil
			}
		}
	}

	return false, nil
}

// CreateFromSale opens a fabrication order for the sale. It is
// idempotent: an existing laboratory order for the sale is returned
// unchanged. When no laboratory was named, the first active laboratory
// is used, falling back to the first laboratory of any status; with no
// laboratory at all the creation is logged and silently skipped.
func (s *LabOrderService) CreateFromSale(tx *gorm.DB, sale *entity.Sale, req *LabOrderRequest, actorID uuid.UUID) (*entity.LaboratoryOrder, error) {
	existing, err := s.labOrderRepo.FindBySaleID(tx, sale.ID)
	if err != nil {
		s.log.Warnf("Failed to look up laboratory order for sale %s: %+v", sale.ID, err)
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	lab, err := s.pickLaboratory(tx, req)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		s.log.Warnf("No laboratory available, skipping fabrication order for sale %s", sale.ID)
		return nil, nil
	}

	notes := ""
	if req != nil {
		notes = req.Notes
	}

	saleID := sale.ID
	labOrder := &entity.LaboratoryOrder{
		LaboratoryID: lab.ID,
		PatientID:    sale.PatientID,
		OrderID:      sale.OrderID,
		SaleID:       &saleID,
		Status:       entity.LabOrderStatusPending,
		Notes:        notes,
		CreatedBy:    actorID,
	}
	if err := s.labOrderRepo.Create(tx, labOrder); err != nil {
		s.log.Warnf("Failed to create laboratory order for sale %s: %+v", sale.ID, err)
		return nil, err
	}

	history := &entity.LaboratoryOrderStatus{
		LaboratoryOrderID: labOrder.ID,
		Status:            entity.LabOrderStatusPending,
		Notes:             notes,
		ChangedBy:         &actorID,
	}
	if err := s.labOrderRepo.CreateStatusHistory(tx, history); err != nil {
		s.log.Warnf("Failed to write laboratory order history for sale %s: %+v", sale.ID, err)
		return nil, err
	}

	s.log.Infof("Laboratory order created: id=%s, sale=%s, laboratory=%s", labOrder.ID, sale.ID, lab.ID)
	return labOrder, nil
}

func (s *LabOrderService) pickLaboratory(tx *gorm.DB, req *LabOrderRequest) (*entity.Laboratory, error) {
	if req != nil && req.LaboratoryID != nil {
		lab, err := s.labRepo.FindByID(tx, *req.LaboratoryID)
		if err != nil {
			s.log.Warnf("Failed to find laboratory %s: %+v", *req.LaboratoryID, err)
			return nil, err
		}
		if lab != nil {
			return lab, nil
		}
		// Named laboratory missing; fall through to the defaults.
	}

	lab, err := s.labRepo.FindFirstActive(tx)
	if err != nil {
		return nil, err
	}
	if lab != nil {
		return lab, nil
	}
	return s.labRepo.FindFirst(tx)
}
