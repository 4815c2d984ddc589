package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bibliotec-gateway/internal/service"
)

// Services bundles the dependencies the router needs.
type Services struct {
	Auth          service.AuthService
	Books         service.BookService
	Users         service.UserService
	Loans         service.LoanService
	Notifications service.NotificationService
}

// NewRouter builds the gateway's HTTP surface: the /api/v1 endpoints plus
// health and metrics. Middleware order is request id, metrics, logging, then
// authentication, so the first three see every request including rejected
// ones.
func NewRouter(services *Services) *mux.Router {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	router.Use(RequestID())
	router.Use(Metrics())
	router.Use(RequestLogger())
	router.Use(Authenticate(services.Auth))

	RegisterAuthRoutes(router, services.Auth)
	RegisterBookRoutes(router, services.Books)
	RegisterUserRoutes(router, services.Users)
	RegisterLoanRoutes(router, services.Loans)
	RegisterNotificationRoutes(router, services.Notifications)

	return router
}
