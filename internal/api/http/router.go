package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/security"
	"evstation-backend/internal/service"
)

// Services bundles everything the router wires handlers to.
type Services struct {
	Auth      service.AuthService
	User      service.UserService
	Station   service.StationService
	Vehicle   service.VehicleService
	Rental    service.RentalService
	Payment   service.PaymentService
	Contract  service.ContractService
	Report    service.ReportService
	Assistant service.AssistantService
}

// NewRouter builds the full API surface. Route groups:
// public auth + webhook, authenticated renter routes, staff routes, admin
// routes.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, RequestLogger)

	authHandler := NewAuthHandler(svcs.Auth)
	userHandler := NewUserHandler(svcs.User)
	stationHandler := NewStationHandler(svcs.Station)
	vehicleHandler := NewVehicleHandler(svcs.Vehicle)
	rentalHandler := NewRentalHandler(svcs.Rental)
	paymentHandler := NewPaymentHandler(svcs.Payment)
	contractHandler := NewContractHandler(svcs.Contract)
	reportHandler := NewReportHandler(svcs.Report)
	assistantHandler := NewAssistantHandler(svcs.Assistant)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Public
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/payments/webhook", paymentHandler.Webhook).Methods("POST")
	api.HandleFunc("/stations", stationHandler.List).Methods("GET")
	api.HandleFunc("/stations/nearby", stationHandler.Nearby).Methods("GET")
	api.HandleFunc("/stations/{id:[0-9]+}", stationHandler.Get).Methods("GET")
	api.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	api.HandleFunc("/vehicles/available", vehicleHandler.ListAvailable).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Get).Methods("GET")

	auth := NewAuthenticator(tokens)

	// Authenticated (any role)
	authed := api.NewRoute().Subrouter()
	authed.Use(auth.Require)
	authed.HandleFunc("/me", userHandler.GetProfile).Methods("GET")
	authed.HandleFunc("/me", userHandler.UpdateProfile).Methods("PUT")
	authed.HandleFunc("/me/analytics", reportHandler.MyAnalytics).Methods("GET")
	authed.HandleFunc("/rentals", rentalHandler.CreateReservation).Methods("POST")
	authed.HandleFunc("/rentals/mine", rentalHandler.ListMine).Methods("GET")
	authed.HandleFunc("/rentals/{id:[0-9]+}", rentalHandler.Get).Methods("GET")
	authed.HandleFunc("/rentals/{id:[0-9]+}/payment-link", paymentHandler.CreateLink).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/cancel", paymentHandler.Cancel).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/contract", contractHandler.Get).Methods("GET")
	authed.HandleFunc("/rentals/{id:[0-9]+}/contract/sign", contractHandler.Sign).Methods("POST")
	authed.HandleFunc("/rentals/{id:[0-9]+}/contract/cancel", contractHandler.Cancel).Methods("POST")
	authed.HandleFunc("/payments/{orderCode:[0-9]+}/status", paymentHandler.CheckStatus).Methods("GET")
	authed.HandleFunc("/assistant/chat", assistantHandler.Chat).Methods("POST")

	// Staff and admin
	staff := api.NewRoute().Subrouter()
	staff.Use(auth.Require, RequireRole(domain.RoleStaff, domain.RoleAdmin))
	staff.HandleFunc("/staff/rentals", rentalHandler.List).Methods("GET")
	staff.HandleFunc("/staff/checkout", rentalHandler.Checkout).Methods("POST")
	staff.HandleFunc("/staff/rentals/{id:[0-9]+}/checkin", rentalHandler.Checkin).Methods("POST")
	staff.HandleFunc("/staff/users/pending", userHandler.ListPendingVerification).Methods("GET")
	staff.HandleFunc("/staff/users/{id:[0-9]+}/verify", userHandler.VerifyUser).Methods("POST")
	staff.HandleFunc("/staff/users/{id:[0-9]+}/risky", userHandler.SetRisky).Methods("POST")
	staff.HandleFunc("/staff/vehicles/{id:[0-9]+}/status", vehicleHandler.UpdateStatus).Methods("PATCH")

	// Admin only
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.Require, RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/admin/stations", stationHandler.Create).Methods("POST")
	admin.HandleFunc("/admin/stations/{id:[0-9]+}", stationHandler.Update).Methods("PUT")
	admin.HandleFunc("/admin/stations/{id:[0-9]+}", stationHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/admin/vehicles", vehicleHandler.Create).Methods("POST")
	admin.HandleFunc("/admin/vehicles/{id:[0-9]+}", vehicleHandler.Update).Methods("PUT")
	admin.HandleFunc("/admin/vehicles/{id:[0-9]+}", vehicleHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/admin/users", userHandler.ListRenters).Methods("GET")
	admin.HandleFunc("/admin/staff", userHandler.CreateStaff).Methods("POST")
	admin.HandleFunc("/admin/reports/revenue", reportHandler.Revenue).Methods("GET")
	admin.HandleFunc("/admin/reports/utilization", reportHandler.Utilization).Methods("GET")
	admin.HandleFunc("/admin/reports/peak-hours", reportHandler.PeakHours).Methods("GET")

	return r
}
