package service

import (
	"time"

	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BillingService synchronizes Order.payment_status and
// Appointment.is_billed with a sale's derived payment status. It must
// always run inside the transaction of the ledger mutation that
// triggered it, so a crash can never leave the linked records
// inconsistent with the sale's true balance.
type BillingService struct {
	log             *logrus.Logger
	orderRepo       repository.OrderRepository
	appointmentRepo repository.AppointmentRepository
}

func NewBillingService(
	log *logrus.Logger,
	orderRepo repository.OrderRepository,
	appointmentRepo repository.AppointmentRepository,
) *BillingService {
	return &BillingService{
		log:             log,
		orderRepo:       orderRepo,
		appointmentRepo: appointmentRepo,
	}
}

// Propagate pushes the sale's current payment_status to its linked
// order and appointment. Fully paid bills the appointment; anything
// else unbills it but keeps the sale link so the appointment remains
// discoverable as attached to a sale.
func (s *BillingService) Propagate(tx *gorm.DB, sale *entity.Sale) error {
	if sale.OrderID != nil {
		if err := s.orderRepo.UpdatePaymentStatus(tx, *sale.OrderID, sale.PaymentStatus); err != nil {
			s.log.Warnf("Failed to propagate payment status to order %s: %+v", *sale.OrderID, err)
			return err
		}
	}

	if sale.AppointmentID != nil {
		if sale.PaymentStatus == entity.PaymentStatusPaid {
			if err := s.appointmentRepo.MarkBilled(tx, *sale.AppointmentID, sale.ID, time.Now()); err != nil {
				s.log.Warnf("Failed to mark appointment %s billed: %+v", *sale.AppointmentID, err)
				return err
			}
		} else {
			saleID := sale.ID
			if err := s.appointmentRepo.MarkUnbilled(tx, *sale.AppointmentID, &saleID); err != nil {
				s.log.Warnf("Failed to mark appointment %s unbilled: %+v", *sale.AppointmentID, err)
				return err
			}
		}
	}

	return nil
}

// Release performs the hard unbilling used by sale cancel and delete:
// the appointment loses is_billed, billed_at and its sale link,
// independent of payment state. When resetOrderPayment is set the
// linked order's payment_status additionally reverts to pending (the
// delete path); cancel leaves the order's payment_status untouched.
func (s *BillingService) Release(tx *gorm.DB, sale *entity.Sale, resetOrderPayment bool) error {
	if sale.AppointmentID != nil {
		if err := s.appointmentRepo.MarkUnbilled(tx, *sale.AppointmentID, nil); err != nil {
			s.log.Warnf("Failed to release appointment %s billing: %+v", *sale.AppointmentID, err)
			return err
		}
	}

	if resetOrderPayment && sale.OrderID != nil {
		if err := s.orderRepo.UpdatePaymentStatus(tx, *sale.OrderID, entity.PaymentStatusPending); err != nil {
			s.log.Warnf("Failed to reset payment status of order %s: %+v", *sale.OrderID, err)
			return err
		}
	}

	return nil
}
