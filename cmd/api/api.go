package api

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/LucasAbreu89/crypto-trading/service/dashboard"
	"github.com/LucasAbreu89/crypto-trading/service/performance"
	"github.com/LucasAbreu89/crypto-trading/service/preferences"
	"github.com/LucasAbreu89/crypto-trading/service/signals"
	"github.com/LucasAbreu89/crypto-trading/service/subscription"
	"github.com/LucasAbreu89/crypto-trading/service/user"
	"github.com/LucasAbreu89/crypto-trading/service/ws"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	subscriptionHandler := subscription.NewSubscriptionHandler(s.db)
	subscriptionHandler.RegisterRoutes(subrouter)

	preferencesHandler := preferences.NewPreferencesHandler(s.db)
	preferencesHandler.RegisterRoutes(subrouter)

	feedHandler := ws.NewFeedHandler(s.db)
	feedHandler.RegisterRoutes(router)

	signalHandler := signals.NewSignalHandler(s.db, feedHandler)
	signalHandler.RegisterRoutes(subrouter)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(subrouter)

	performanceHandler := performance.NewPerformanceHandler(s.db)
	performanceHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, cors(router)))
}
