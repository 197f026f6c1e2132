package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"go-optical-clinic/internal/delivery/http/middleware"
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
		&entity.Role{},
		&entity.User{},
		&entity.Patient{},
		&entity.Product{},
		&entity.PaymentMethod{},
		&entity.Appointment{},
		&entity.DiscountRequest{},
		&entity.Quote{},
		&entity.QuoteItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Sale{},
		&entity.SalePayment{},
		&entity.PartialPayment{},
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

// actorContext mimics what the auth middleware puts on the request
// context after validating a token.
func actorContext(userID uuid.UUID, roleID int) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.RoleIDKey, roleID)
}

func d(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", value, err)
	}
	return v
}

func seedUser(t *testing.T, db *gorm.DB, roleID int) *entity.User {
	t.Helper()
	active := true
	user := &entity.User{
		RoleID:   roleID,
		Email:    uuid.NewString() + "@clinic.test",
		Password: "hashed",
		FullName: "Test User",
		IsActive: &active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedPatient(t *testing.T, db *gorm.DB) *entity.Patient {
	t.Helper()
	patient := &entity.Patient{
		FirstName: "Maria",
		LastName:  "Lopez",
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("failed to seed patient: %v", err)
	}
	return patient
}

func seedProduct(t *testing.T, db *gorm.DB, price string, hasLens bool) *entity.Product {
	t.Helper()
	product := &entity.Product{
		SKU:               uuid.NewString(),
		Name:              "Test Product",
		Category:          entity.ProductCategoryFrame,
		Price:             d(t, price),
		Stock:             10,
		HasLensAttributes: hasLens,
	}
	if hasLens {
		product.Category = entity.ProductCategoryLens
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedPaymentMethod(t *testing.T, db *gorm.DB) *entity.PaymentMethod {
	t.Helper()
	method := &entity.PaymentMethod{Name: uuid.NewString()}
	if err := db.Create(method).Error; err != nil {
		t.Fatalf("failed to seed payment method: %v", err)
	}
	return method
}

func seedLaboratory(t *testing.T, db *gorm.DB) *entity.Laboratory {
	t.Helper()
	lab := &entity.Laboratory{
		Name:   "Optic Lab",
		Status: entity.LaboratoryStatusActive,
	}
	if err := db.Create(lab).Error; err != nil {
		t.Fatalf("failed to seed laboratory: %v", err)
	}
	return lab
}

func seedAppointment(t *testing.T, db *gorm.DB, patientID, specialistID uuid.UUID) *entity.Appointment {
	t.Helper()
	appointment := &entity.Appointment{
		PatientID:    patientID,
		SpecialistID: specialistID,
		Status:       entity.AppointmentStatusScheduled,
		ScheduledAt:  time.Now().Add(time.Hour),
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	return appointment
}

func seedOrder(t *testing.T, db *gorm.DB, patientID, createdBy uuid.UUID, total string) *entity.Order {
	t.Helper()
	order := &entity.Order{
		OrderNumber:   "OR-TEST-" + uuid.NewString()[:8],
		PatientID:     patientID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Subtotal:      d(t, total),
		Tax:           decimal.Zero,
		Discount:      decimal.Zero,
		Total:         d(t, total),
		CreatedBy:     createdBy,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}
