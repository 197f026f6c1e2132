package service

import (
	"io"
	"testing"

	"go-optical-clinic/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Patient{},
		&entity.Product{},
		&entity.DiscountRequest{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Sale{},
		&entity.Appointment{},
		&entity.Laboratory{},
		&entity.LaboratoryOrder{},
		&entity.LaboratoryOrderStatus{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func d(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", value, err)
	}
	return v
}

func seedTestSale(t *testing.T, db *gorm.DB, patientID uuid.UUID, orderID *uuid.UUID) *entity.Sale {
	t.Helper()
	sale := &entity.Sale{
		SaleNumber:    "SL-TEST-" + uuid.NewString()[:8],
		PatientID:     patientID,
		OrderID:       orderID,
		Subtotal:      d(t, "100.00"),
		Tax:           decimal.Zero,
		Discount:      decimal.Zero,
		Total:         d(t, "100.00"),
		Balance:       d(t, "100.00"),
		PaymentStatus: entity.PaymentStatusPending,
		Status:        entity.SaleStatusCompleted,
		CreatedBy:     uuid.New(),
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("failed to seed sale: %v", err)
	}
	return sale
}
