package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
	"github.com/LucasAbreu89/crypto-trading/cmd/utils"
)

type PreferencesHandler struct {
	db *gorm.DB
}

func NewPreferencesHandler(db *gorm.DB) *PreferencesHandler {
	return &PreferencesHandler{db: db}
}

func (h *PreferencesHandler) RegisterRoutes(router *mux.Router) {
	prefsRouter := router.PathPrefix("/preferences").Subrouter()

	prefsRouter.HandleFunc("", utils.AuthMiddleware(h.GetPreferences)).Methods("GET")
	prefsRouter.HandleFunc("", utils.AuthMiddleware(h.UpdatePreferences)).Methods("PUT")
	prefsRouter.HandleFunc("/pairs", utils.AuthMiddleware(h.ReplacePairs)).Methods("PUT")
	prefsRouter.HandleFunc("/pairs/toggle", utils.AuthMiddleware(h.TogglePair)).Methods("POST")
}

// getOrCreate loads a user's preferences, provisioning defaults when the
// record does not exist yet.
func (h *PreferencesHandler) getOrCreate(userID uint) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := h.db.Where("user_id = ?", userID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prefs = models.DefaultPreferences(userID)
		if err := h.db.Create(&prefs).Error; err != nil {
			return nil, err
		}
		return &prefs, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// currentPlan resolves the plan governing the user right now. Accounts
// without a live subscription row fall back to free.
func (h *PreferencesHandler) currentPlan(userID uint) models.Plan {
	var subscription models.Subscription
	now := time.Now()
	err := h.db.Where("user_id = ? AND status IN ? AND (current_period_end IS NULL OR current_period_end >= ?)",
		userID, []string{models.SubStatusActive, models.SubStatusTrialing}, now).
		Order("current_period_end DESC NULLS LAST").
		First(&subscription).Error
	if err != nil {
		return models.PlanFree
	}
	return subscription.Plan
}

func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prefs, err := h.getOrCreate(userID)
	if err != nil {
		http.Error(w, "Error retrieving preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var updateData struct {
		Theme           *string  `json:"theme"`
		Timezone        *string  `json:"timezone"`
		Currency        *string  `json:"currency"`
		DefaultLeverage *float64 `json:"default_leverage"`
		RiskLevel       *string  `json:"risk_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prefs, err := h.getOrCreate(userID)
	if err != nil {
		http.Error(w, "Error retrieving preferences", http.StatusInternalServerError)
		return
	}

	if updateData.Theme != nil {
		prefs.Theme = *updateData.Theme
	}
	if updateData.Timezone != nil {
		prefs.Timezone = *updateData.Timezone
	}
	if updateData.Currency != nil {
		prefs.Currency = *updateData.Currency
	}
	if updateData.DefaultLeverage != nil {
		prefs.DefaultLeverage = *updateData.DefaultLeverage
	}
	if updateData.RiskLevel != nil {
		prefs.RiskLevel = *updateData.RiskLevel
	}

	if err := h.db.Save(prefs).Error; err != nil {
		http.Error(w, "Error updating preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// TogglePair flips one pair in the user's selection under the plan's
// capacity rule. A refused addition is not an error: the response reports
// changed=false and the unchanged selection, mirroring a disabled control.
func (h *PreferencesHandler) TogglePair(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var toggleRequest struct {
		Pair string `json:"pair"`
	}
	if err := json.NewDecoder(r.Body).Decode(&toggleRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !models.ValidPair(toggleRequest.Pair) {
		http.Error(w, fmt.Sprintf("Unknown pair %q", toggleRequest.Pair), http.StatusBadRequest)
		return
	}

	prefs, err := h.getOrCreate(userID)
	if err != nil {
		http.Error(w, "Error retrieving preferences", http.StatusInternalServerError)
		return
	}

	plan := h.currentPlan(userID)
	selection := NewSelection(plan, prefs.SelectedPairs)
	changed := selection.Toggle(toggleRequest.Pair)

	if changed {
		prefs.SelectedPairs = selection.Pairs()
		if err := h.db.Save(prefs).Error; err != nil {
			http.Error(w, "Error saving selection", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"changed":        changed,
		"selected_pairs": selection.Pairs(),
		"capacity":       selection.Capacity(),
	})
}

// ReplacePairs swaps the whole selection at once. Unlike toggle, an
// over-capacity set here is a client bug and gets a 400.
func (h *PreferencesHandler) ReplacePairs(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var replaceRequest struct {
		Pairs []string `json:"pairs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&replaceRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for _, p := range replaceRequest.Pairs {
		if !models.ValidPair(p) {
			http.Error(w, fmt.Sprintf("Unknown pair %q", p), http.StatusBadRequest)
			return
		}
	}

	plan := h.currentPlan(userID)
	capacity := models.EntitlementFor(plan).MaxPairs
	if len(replaceRequest.Pairs) > capacity {
		http.Error(w, fmt.Sprintf("Selection exceeds plan capacity of %d pairs", capacity), http.StatusBadRequest)
		return
	}

	prefs, err := h.getOrCreate(userID)
	if err != nil {
		http.Error(w, "Error retrieving preferences", http.StatusInternalServerError)
		return
	}

	selection := NewSelection(plan, replaceRequest.Pairs)
	prefs.SelectedPairs = selection.Pairs()
	if err := h.db.Save(prefs).Error; err != nil {
		http.Error(w, "Error saving selection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}
