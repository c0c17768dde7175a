package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
	"github.com/LucasAbreu89/crypto-trading/cmd/utils"
	"github.com/LucasAbreu89/crypto-trading/service/signals"
	"github.com/LucasAbreu89/crypto-trading/service/subscription"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("", utils.AuthMiddleware(h.GetDashboard)).Methods("GET")
}

// DashboardView is everything the account dashboard renders in one call.
// Legs that failed to load come back null and are named in Errors; the
// rest still populate so the page degrades instead of blanking.
type DashboardView struct {
	Profile      *models.Profile         `json:"profile"`
	Subscription *models.Subscription    `json:"subscription"`
	Entitlement  models.Entitlement      `json:"entitlement"`
	Preferences  *models.UserPreferences `json:"preferences"`
	Signals      []signals.LiveSignal    `json:"signals"`
	Errors       []string                `json:"errors,omitempty"`
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	view := DashboardView{}
	plan := models.PlanFree

	var profile models.Profile
	if err := h.db.First(&profile, userID).Error; err != nil {
		view.Errors = append(view.Errors, "profile")
	} else {
		view.Profile = &profile
	}

	// No active subscription is not a failure, the account is just free tier
	sub, err := subscription.ActiveForUser(h.db, userID, now)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			view.Errors = append(view.Errors, "subscription")
		}
	} else {
		view.Subscription = sub
		plan = sub.Plan
	}
	view.Entitlement = models.EntitlementFor(plan)

	var selectedPairs []string
	var prefs models.UserPreferences
	if err := h.db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			view.Errors = append(view.Errors, "preferences")
		}
	} else {
		view.Preferences = &prefs
		selectedPairs = prefs.SelectedPairs
	}

	view.Signals = []signals.LiveSignal{}
	var candidates []models.Signal
	if err := h.db.Where("status = ?", models.SignalActive).
		Order("opened_at DESC").Find(&candidates).Error; err != nil {
		view.Errors = append(view.Errors, "signals")
	} else {
		for _, s := range signals.VisibleSignals(plan, selectedPairs, candidates) {
			view.Signals = append(view.Signals, signals.LiveSignal{
				Signal:        s,
				TimeElapsed:   utils.ElapsedLabel(s.OpenedAt, now),
				TimeRemaining: utils.RemainingLabel(s.OpenedAt, s.HoldTimeHours, now),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}
