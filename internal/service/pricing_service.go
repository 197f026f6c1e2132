package service

import (
	"time"

	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	percentFloor   = decimal.Zero
	percentCeiling = decimal.NewFromInt(100)
	oneHundred     = decimal.NewFromInt(100)
)

// DiscountOffer is the single best-matching approved discount for a
// product/patient pair at resolution time.
type DiscountOffer struct {
	DiscountID      uuid.UUID
	Percentage      decimal.Decimal
	PatientSpecific bool
}

// PriceQuote is the outcome of pricing a base unit price through the
// discount resolution engine. Percentage is zero when no offer applies.
type PriceQuote struct {
	Original   decimal.Decimal
	Discounted decimal.Decimal
	Percentage decimal.Decimal
	DiscountID *uuid.UUID
}

// PricingService resolves the best currently-valid discount for a
// product and computes discounted prices. Quote, order and sale
// creation consume it; the sale ledger itself never re-derives prices.
type PricingService struct {
	log          *logrus.Logger
	discountRepo repository.DiscountRequestRepository
}

func NewPricingService(log *logrus.Logger, discountRepo repository.DiscountRequestRepository) *PricingService {
	return &PricingService{
		log:          log,
		discountRepo: discountRepo,
	}
}

// Resolve returns the best applicable discount offer, or nil when none
// applies. A patient-specific discount always wins over a global one;
// within each class the highest percentage wins (ties break on earliest
// created_at, then id). Percentages outside (0,100] are ignored.
func (s *PricingService) Resolve(db *gorm.DB, productID uuid.UUID, patientID *uuid.UUID) (*DiscountOffer, error) {
	now := time.Now()

	if patientID != nil {
		best, err := s.discountRepo.FindBestForPatient(db, productID, *patientID, now)
		if err != nil {
			s.log.Warnf("Failed to resolve patient discount for product %s: %+v", productID, err)
			return nil, err
		}
		if offer := toOffer(best, true); offer != nil {
			return offer, nil
		}
	}

	best, err := s.discountRepo.FindBestGlobal(db, productID, now)
	if err != nil {
		s.log.Warnf("Failed to resolve global discount for product %s: %+v", productID, err)
		return nil, err
	}
	return toOffer(best, false), nil
}

// Price applies the resolved offer to baseUnitPrice. When no offer
// resolves the original price is returned with a zero percentage.
func (s *PricingService) Price(db *gorm.DB, baseUnitPrice decimal.Decimal, productID uuid.UUID, patientID *uuid.UUID) (*PriceQuote, error) {
	offer, err := s.Resolve(db, productID, patientID)
	if err != nil {
		return nil, err
	}

	if offer == nil {
		return &PriceQuote{
			Original:   baseUnitPrice,
			Discounted: baseUnitPrice,
			Percentage: decimal.Zero,
		}, nil
	}

	factor := decimal.NewFromInt(1).Sub(offer.Percentage.Div(oneHundred))
	discounted := baseUnitPrice.Mul(factor).Round(2)

	discountID := offer.DiscountID
	return &PriceQuote{
		Original:   baseUnitPrice,
		Discounted: discounted,
		Percentage: offer.Percentage,
		DiscountID: &discountID,
	}, nil
}

// toOffer filters out percentages outside (0,100]
func toOffer(request *entity.DiscountRequest, patientSpecific bool) *DiscountOffer {
	if request == nil {
		return nil
	}
	if request.DiscountPercentage.LessThanOrEqual(percentFloor) ||
		request.DiscountPercentage.GreaterThan(percentCeiling) {
		return nil
	}
	return &DiscountOffer{
		DiscountID:      request.ID,
		Percentage:      request.DiscountPercentage,
		PatientSpecific: patientSpecific,
	}
}
