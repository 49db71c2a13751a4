package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/handlers"
	"github.com/edsa-freetown/gridwatch/middleware"
	"github.com/edsa-freetown/gridwatch/pkg/changefeed"
	"github.com/edsa-freetown/gridwatch/pkg/guard"
	"github.com/edsa-freetown/gridwatch/pkg/summary"
	"github.com/edsa-freetown/gridwatch/pkg/workflow"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(db *gorm.DB, hub *changefeed.Hub) http.Handler {
	r := mux.NewRouter()

	wf := workflow.New(db)

	authH := handlers.NewAuthHandler(handlers.NewGormAccountStore(db))
	communityH := handlers.NewCommunityHandler(db)
	reportH := handlers.NewReportHandler(db, wf)
	outageH := handlers.NewOutageHandler(db, wf)
	paymentH := handlers.NewPaymentHandler(db)
	dashboardH := handlers.NewDashboardHandler(summary.New(summary.NewGormStore(db)))
	exportH := handlers.NewExportHandler(db)
	eventsH := handlers.NewEventsHandler(hub)

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/setup/status", authH.SetupStatus).Methods("GET")
	r.HandleFunc("/signup", authH.Signup).Methods("POST")
	r.HandleFunc("/login", authH.Login).Methods("POST")
	r.HandleFunc("/public/reports", reportH.Intake).Methods("POST")
	r.HandleFunc("/communities/locate", communityH.Locate).Methods("GET")

	// =====================================================
	// Protected API Routes (require JWT + live session)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)
	api.Use(middleware.AdminGate(guard.New(guard.NewGormStore(db))))

	api.HandleFunc("/logout", authH.Logout).Methods("POST")
	api.HandleFunc("/me", authH.Me).Methods("GET")
	api.HandleFunc("/me", authH.UpdateMe).Methods("PUT")

	api.HandleFunc("/dashboard/summary", dashboardH.Summary).Methods("GET")

	api.HandleFunc("/communities", communityH.List).Methods("GET")

	api.HandleFunc("/reports", reportH.List).Methods("GET")
	api.HandleFunc("/reports/export", exportH.ReportsExcel).Methods("GET")
	api.HandleFunc("/reports/{id}/resolve", reportH.Resolve).Methods("POST")

	api.HandleFunc("/outages", outageH.List).Methods("GET")
	api.HandleFunc("/outages", outageH.Create).Methods("POST")
	api.HandleFunc("/outages/{id}/resolve", outageH.Resolve).Methods("POST")

	api.HandleFunc("/payments", paymentH.List).Methods("GET")
	api.HandleFunc("/payments/export", exportH.PaymentsExcel).Methods("GET")

	api.HandleFunc("/events", eventsH.Stream).Methods("GET")

	return r
}
