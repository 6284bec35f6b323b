package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"orderflow-backend/internal/handlers"
	"orderflow-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	storeHandler *handlers.StoreHandler,
	prospectHandler *handlers.ProspectHandler,
	categoryHandler *handlers.CategoryHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
	paymentHandler *handlers.PaymentHandler,
	containerHandler *handlers.ContainerHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	reminderHandler *handlers.ReminderHandler,
	documentHandler *handlers.DocumentHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/login-history", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.LoginHistory)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.GetUser)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Stores
	storesAPI := r.PathPrefix("/api/stores").Subrouter()
	storesAPI.Use(authMiddleware.Authenticate)
	storesAPI.HandleFunc("", storeHandler.ListStores).Methods("GET")
	storesAPI.HandleFunc("", storeHandler.CreateStore).Methods("POST")
	storesAPI.HandleFunc("/{id}", storeHandler.GetStore).Methods("GET")
	storesAPI.HandleFunc("/{id}", storeHandler.UpdateStore).Methods("PUT")
	storesAPI.HandleFunc("/{id}", storeHandler.DeleteStore).Methods("DELETE")

	// Protected API routes - Prospects
	prospectsAPI := r.PathPrefix("/api/prospects").Subrouter()
	prospectsAPI.Use(authMiddleware.Authenticate)
	prospectsAPI.HandleFunc("", prospectHandler.ListProspects).Methods("GET")
	prospectsAPI.HandleFunc("", prospectHandler.CreateProspect).Methods("POST")
	prospectsAPI.HandleFunc("/{id}", prospectHandler.GetProspect).Methods("GET")
	prospectsAPI.HandleFunc("/{id}", prospectHandler.UpdateProspect).Methods("PUT")
	prospectsAPI.HandleFunc("/{id}", prospectHandler.DeleteProspect).Methods("DELETE")
	prospectsAPI.HandleFunc("/{id}/convert", prospectHandler.ConvertProspect).Methods("POST")

	// Protected API routes - Categories
	categoriesAPI := r.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(authMiddleware.Authenticate)
	categoriesAPI.HandleFunc("", categoryHandler.ListCategories).Methods("GET")
	categoriesAPI.HandleFunc("", categoryHandler.CreateCategory).Methods("POST")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.DeleteCategory).Methods("DELETE")

	// Protected API routes - Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.ListProducts).Methods("GET")
	productsAPI.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	productsAPI.HandleFunc("/export", documentHandler.ExportProducts).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.UpdateProduct).Methods("PUT")
	productsAPI.HandleFunc("/{id}", productHandler.DeleteProduct).Methods("DELETE")

	// Protected API routes - Orders
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Authenticate)
	ordersAPI.HandleFunc("", orderHandler.ListOrders).Methods("GET")
	ordersAPI.HandleFunc("", orderHandler.CreateOrder).Methods("POST")
	ordersAPI.HandleFunc("/export", documentHandler.ExportOrders).Methods("GET")
	ordersAPI.HandleFunc("/invoices.zip", documentHandler.BulkInvoiceZip).Methods("GET")
	ordersAPI.HandleFunc("/po/{po}", orderHandler.GetOrderByPONumber).Methods("GET")
	ordersAPI.HandleFunc("/{id}", orderHandler.GetOrder).Methods("GET")
	ordersAPI.HandleFunc("/{id}", orderHandler.UpdateOrder).Methods("PUT")
	ordersAPI.HandleFunc("/{id}", orderHandler.DeleteOrder).Methods("DELETE")
	ordersAPI.HandleFunc("/{id}/invoice.pdf", documentHandler.InvoicePDF).Methods("GET")
	ordersAPI.HandleFunc("/{id}/shipto.pdf", documentHandler.ShipToPDF).Methods("GET")
	ordersAPI.HandleFunc("/{id}/delivery.pdf", documentHandler.DeliverySheetPDF).Methods("GET")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.ListPayments).Methods("GET")
	paymentsAPI.HandleFunc("", paymentHandler.CreatePayment).Methods("POST")
	paymentsAPI.HandleFunc("/{id}", paymentHandler.GetPayment).Methods("GET")
	paymentsAPI.HandleFunc("/{id}", paymentHandler.DeletePayment).Methods("DELETE")

	// Protected API routes - Containers
	containersAPI := r.PathPrefix("/api/containers").Subrouter()
	containersAPI.Use(authMiddleware.Authenticate)
	containersAPI.HandleFunc("", containerHandler.ListContainers).Methods("GET")
	containersAPI.HandleFunc("", containerHandler.CreateContainer).Methods("POST")
	containersAPI.HandleFunc("/import", containerHandler.ImportContainer).Methods("POST")
	containersAPI.HandleFunc("/{id}", containerHandler.GetContainer).Methods("GET")
	containersAPI.HandleFunc("/{id}", containerHandler.UpdateContainer).Methods("PUT")
	containersAPI.HandleFunc("/{id}", containerHandler.DeleteContainer).Methods("DELETE")

	// Protected API routes - Analytics
	analyticsAPI := r.PathPrefix("/api/analytics").Subrouter()
	analyticsAPI.Use(authMiddleware.Authenticate)
	analyticsAPI.HandleFunc("/best-sellers", analyticsHandler.BestSellers).Methods("GET")
	analyticsAPI.HandleFunc("/worst-sellers", analyticsHandler.WorstSellers).Methods("GET")
	analyticsAPI.HandleFunc("/segmentation", analyticsHandler.Segmentation).Methods("GET")
	analyticsAPI.HandleFunc("/chart", analyticsHandler.ChartData).Methods("GET")

	// Protected API routes - Reminders (admin only)
	remindersAPI := r.PathPrefix("/api/reminders").Subrouter()
	remindersAPI.Use(authMiddleware.Authenticate)
	remindersAPI.HandleFunc("/run", authMiddleware.RequireAdmin(http.HandlerFunc(reminderHandler.RunReminders)).ServeHTTP).Methods("POST")

	// Protected API routes - Uploads (check images and attachments)
	uploadsAPI := r.PathPrefix("/api/uploads").Subrouter()
	uploadsAPI.Use(authMiddleware.Authenticate)
	uploadsAPI.HandleFunc("", uploadHandler.Upload).Methods("POST")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
