package http

import (
	"net/http"

	"go-optical-clinic/internal/delivery/http/handler"
	"go-optical-clinic/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	patientHandler     *handler.PatientHandler
	productHandler     *handler.ProductHandler
	appointmentHandler *handler.AppointmentHandler
	discountHandler    *handler.DiscountHandler
	quoteHandler       *handler.QuoteHandler
	orderHandler       *handler.OrderHandler
	saleHandler        *handler.SaleHandler
	laboratoryHandler  *handler.LaboratoryHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	productHandler *handler.ProductHandler,
	appointmentHandler *handler.AppointmentHandler,
	discountHandler *handler.DiscountHandler,
	quoteHandler *handler.QuoteHandler,
	orderHandler *handler.OrderHandler,
	saleHandler *handler.SaleHandler,
	laboratoryHandler *handler.LaboratoryHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		patientHandler:     patientHandler,
		productHandler:     productHandler,
		appointmentHandler: appointmentHandler,
		discountHandler:    discountHandler,
		quoteHandler:       quoteHandler,
		orderHandler:       orderHandler,
		saleHandler:        saleHandler,
		laboratoryHandler:  laboratoryHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Staff registration is admin-only
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", r.authHandler.Register).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// All remaining routes require an authenticated staff member
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Patients
	staff.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	staff.HandleFunc("/patients", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	staff.HandleFunc("/patients/{id}/quotes", r.quoteHandler.GetQuotesByPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}/orders", r.orderHandler.GetOrdersByPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}/sales", r.saleHandler.GetSalesByPatient).Methods(http.MethodGet)

	// Products (catalog writes are admin-only)
	staff.HandleFunc("/products", r.productHandler.GetAllProducts).Methods(http.MethodGet)
	staff.HandleFunc("/products/{id}", r.productHandler.GetProduct).Methods(http.MethodGet)
	staff.HandleFunc("/products/{productId}/price", r.discountHandler.ResolvePrice).Methods(http.MethodGet)
	admin.HandleFunc("/products", r.productHandler.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", r.productHandler.UpdateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", r.productHandler.DeleteProduct).Methods(http.MethodDelete)

	// Appointments
	staff.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPut)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)
	staff.HandleFunc("/specialists/{id}/appointments", r.appointmentHandler.GetBySpecialist).Methods(http.MethodGet)

	// Consultation workflow (specialists and admins)
	workflow := api.PathPrefix("/appointments").Subrouter()
	workflow.Use(r.authMiddleware.Authenticate)
	workflow.Use(middleware.RequireAdminOrSpecialist)
	workflow.HandleFunc("/{id}/take", r.appointmentHandler.TakeAppointment).Methods(http.MethodPost)
	workflow.HandleFunc("/{id}/pause", r.appointmentHandler.PauseAppointment).Methods(http.MethodPost)
	workflow.HandleFunc("/{id}/resume", r.appointmentHandler.ResumeAppointment).Methods(http.MethodPost)
	workflow.HandleFunc("/{id}/complete", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPost)

	// Discounts (decisions and deletion are admin-only)
	staff.HandleFunc("/discounts", r.discountHandler.CreateDiscount).Methods(http.MethodPost)
	staff.HandleFunc("/discounts", r.discountHandler.GetAllDiscounts).Methods(http.MethodGet)
	staff.HandleFunc("/discounts/pending", r.discountHandler.GetPendingDiscounts).Methods(http.MethodGet)
	staff.HandleFunc("/discounts/{id}", r.discountHandler.GetDiscount).Methods(http.MethodGet)
	staff.HandleFunc("/discounts/{id}", r.discountHandler.DeleteDiscount).Methods(http.MethodDelete)
	admin.HandleFunc("/discounts/{id}/approve", r.discountHandler.ApproveDiscount).Methods(http.MethodPost)
	admin.HandleFunc("/discounts/{id}/reject", r.discountHandler.RejectDiscount).Methods(http.MethodPost)

	// Quotes
	staff.HandleFunc("/quotes", r.quoteHandler.CreateQuote).Methods(http.MethodPost)
	staff.HandleFunc("/quotes", r.quoteHandler.GetAllQuotes).Methods(http.MethodGet)
	staff.HandleFunc("/quotes/{id}", r.quoteHandler.GetQuote).Methods(http.MethodGet)
	staff.HandleFunc("/quotes/{id}/approve", r.quoteHandler.ApproveQuote).Methods(http.MethodPost)
	staff.HandleFunc("/quotes/{id}/reject", r.quoteHandler.RejectQuote).Methods(http.MethodPost)
	staff.HandleFunc("/quotes/{id}/convert", r.quoteHandler.ConvertQuote).Methods(http.MethodPost)
	staff.HandleFunc("/quotes/{id}", r.quoteHandler.DeleteQuote).Methods(http.MethodDelete)

	// Orders
	staff.HandleFunc("/orders", r.orderHandler.CreateOrder).Methods(http.MethodPost)
	staff.HandleFunc("/orders", r.orderHandler.GetAllOrders).Methods(http.MethodGet)
	staff.HandleFunc("/orders/{id}", r.orderHandler.GetOrder).Methods(http.MethodGet)
	staff.HandleFunc("/orders/{id}/complete", r.orderHandler.CompleteOrder).Methods(http.MethodPost)

	// Sales ledger
	staff.HandleFunc("/sales", r.saleHandler.CreateSale).Methods(http.MethodPost)
	staff.HandleFunc("/sales", r.saleHandler.GetAllSales).Methods(http.MethodGet)
	staff.HandleFunc("/sales/{id}", r.saleHandler.GetSale).Methods(http.MethodGet)
	staff.HandleFunc("/sales/{id}/payments", r.saleHandler.AddPayment).Methods(http.MethodPost)
	staff.HandleFunc("/sales/{id}/payments/{paymentId}", r.saleHandler.RemovePayment).Methods(http.MethodDelete)
	staff.HandleFunc("/sales/{id}/partial-payments", r.saleHandler.AddPartialPayment).Methods(http.MethodPost)
	staff.HandleFunc("/sales/{id}/partial-payments/{paymentId}", r.saleHandler.RemovePartialPayment).Methods(http.MethodDelete)
	staff.HandleFunc("/sales/{id}/cancel", r.saleHandler.CancelSale).Methods(http.MethodPost)
	admin.HandleFunc("/sales/{id}", r.saleHandler.DeleteSale).Methods(http.MethodDelete)

	// Laboratories and fabrication orders
	staff.HandleFunc("/laboratories", r.laboratoryHandler.GetAllLaboratories).Methods(http.MethodGet)
	staff.HandleFunc("/laboratories/{id}", r.laboratoryHandler.GetLaboratory).Methods(http.MethodGet)
	admin.HandleFunc("/laboratories", r.laboratoryHandler.CreateLaboratory).Methods(http.MethodPost)
	admin.HandleFunc("/laboratories/{id}", r.laboratoryHandler.UpdateLaboratory).Methods(http.MethodPut)
	admin.HandleFunc("/laboratories/{id}/deactivate", r.laboratoryHandler.DeactivateLaboratory).Methods(http.MethodPost)
	staff.HandleFunc("/lab-orders", r.laboratoryHandler.GetAllLabOrders).Methods(http.MethodGet)
	staff.HandleFunc("/lab-orders/{id}", r.laboratoryHandler.GetLabOrder).Methods(http.MethodGet)
	staff.HandleFunc("/lab-orders/{id}/status", r.laboratoryHandler.UpdateLabOrderStatus).Methods(http.MethodPut)
	staff.HandleFunc("/lab-orders/{id}", r.laboratoryHandler.DeleteLabOrder).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
