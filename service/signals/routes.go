package signals

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
	"github.com/LucasAbreu89/crypto-trading/cmd/utils"
)

// Publisher receives signal lifecycle events for fan-out to live
// subscribers. A nil publisher disables broadcasting.
type Publisher interface {
	PublishSignal(event string, signal models.Signal)
}

type SignalHandler struct {
	db        *gorm.DB
	publisher Publisher
}

func NewSignalHandler(db *gorm.DB, publisher Publisher) *SignalHandler {
	return &SignalHandler{db: db, publisher: publisher}
}

func (h *SignalHandler) RegisterRoutes(router *mux.Router) {
	signalRouter := router.PathPrefix("/signals").Subrouter()

	// Base CRUD operations
	signalRouter.HandleFunc("", utils.AuthMiddleware(h.CreateSignal)).Methods("POST")
	signalRouter.HandleFunc("", utils.AuthMiddleware(h.GetSignals)).Methods("GET")
	signalRouter.HandleFunc("/{id:[0-9]+}", utils.AuthMiddleware(h.GetSignalByID)).Methods("GET")
	signalRouter.HandleFunc("/{id:[0-9]+}", utils.AuthMiddleware(h.UpdateSignal)).Methods("PUT")
	signalRouter.HandleFunc("/{id:[0-9]+}", utils.AuthMiddleware(h.DeleteSignal)).Methods("DELETE")
	signalRouter.HandleFunc("/{id:[0-9]+}/close", utils.AuthMiddleware(h.CloseSignal)).Methods("POST")

	// Batch operations
	signalRouter.HandleFunc("/batch", utils.AuthMiddleware(h.CreateBatchSignals)).Methods("POST")

	// Derived views
	signalRouter.HandleFunc("/visible", utils.AuthMiddleware(h.GetVisibleSignals)).Methods("GET")
	signalRouter.HandleFunc("/live", h.GetLiveDesk).Methods("GET")
	signalRouter.HandleFunc("/stats", utils.AuthMiddleware(h.GetSignalStats)).Methods("GET")
}

func validateSignal(s *models.Signal) error {
	if !models.ValidPair(s.Symbol) {
		return fmt.Errorf("unknown pair %q", s.Symbol)
	}
	if s.Direction != models.DirectionLong && s.Direction != models.DirectionShort {
		return fmt.Errorf("invalid direction %q", s.Direction)
	}
	switch s.Strength {
	case models.StrengthStrong, models.StrengthModerate, models.StrengthWeak:
	default:
		return fmt.Errorf("invalid strength %q", s.Strength)
	}
	if s.EntryPrice <= 0 {
		return errors.New("entry price must be positive")
	}
	if s.ChecksPassed != nil && (*s.ChecksPassed < 0 || *s.ChecksPassed > s.TotalChecks) {
		return errors.New("checks passed out of range")
	}
	return nil
}

// CreateSignal publishes a new signal. The generation pipeline lives
// elsewhere; this endpoint is its write path.
func (h *SignalHandler) CreateSignal(w http.ResponseWriter, r *http.Request) {
	var signal models.Signal
	if err := json.NewDecoder(r.Body).Decode(&signal); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if signal.Status == "" {
		signal.Status = models.SignalActive
	}
	if signal.OpenedAt.IsZero() {
		signal.OpenedAt = time.Now()
	}
	if signal.HoldTimeHours == 0 {
		signal.HoldTimeHours = models.DefaultHoldTimeHours(signal.Symbol)
	}
	if signal.TotalChecks == 0 {
		signal.TotalChecks = 11
	}

	if err := validateSignal(&signal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&signal).Error; err != nil {
		http.Error(w, "Error creating signal", http.StatusInternalServerError)
		return
	}

	if h.publisher != nil {
		h.publisher.PublishSignal("signal_opened", signal)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(signal)
}

// GetSignals retrieves signals ordered by recency
func (h *SignalHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	var signals []models.Signal

	query := r.URL.Query()
	limit := 100
	if query.Get("limit") != "" {
		parsedLimit, err := strconv.Atoi(query.Get("limit"))
		if err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	offset := 0
	if query.Get("offset") != "" {
		parsedOffset, err := strconv.Atoi(query.Get("offset"))
		if err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	dbQuery := h.db.Order("opened_at DESC").Limit(limit).Offset(offset)
	if status := query.Get("status"); status != "" {
		dbQuery = dbQuery.Where("status = ?", status)
	}
	if symbol := query.Get("symbol"); symbol != "" {
		dbQuery = dbQuery.Where("symbol = ?", symbol)
	}

	if err := dbQuery.Find(&signals).Error; err != nil {
		http.Error(w, "Error retrieving signals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(signals)
}

func (h *SignalHandler) GetSignalByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid signal ID", http.StatusBadRequest)
		return
	}

	var signal models.Signal
	if err := h.db.First(&signal, id).Error; err != nil {
		http.Error(w, "Signal not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(signal)
}

// UpdateSignal refreshes a signal's market-tracking fields while it is
// open. Closed signals are immutable.
func (h *SignalHandler) UpdateSignal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid signal ID", http.StatusBadRequest)
		return
	}

	var updateData struct {
		CurrentPrice  *float64 `json:"current_price"`
		CurrentPnlPct *float64 `json:"current_pnl_pct"`
		ChecksPassed  *int     `json:"checks_passed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var signal models.Signal
	if err := h.db.First(&signal, id).Error; err != nil {
		http.Error(w, "Signal not found", http.StatusNotFound)
		return
	}

	if signal.Closed() {
		http.Error(w, "Signal is closed and cannot be updated", http.StatusConflict)
		return
	}

	if updateData.CurrentPrice != nil {
		signal.CurrentPrice = updateData.CurrentPrice
	}
	if updateData.CurrentPnlPct != nil {
		signal.CurrentPnlPct = updateData.CurrentPnlPct
	}
	if updateData.ChecksPassed != nil {
		signal.ChecksPassed = updateData.ChecksPassed
	}

	if err := h.db.Save(&signal).Error; err != nil {
		http.Error(w, "Error updating signal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(signal)
}

// CloseSignal transitions a signal to a terminal status and freezes its
// result fields.
func (h *SignalHandler) CloseSignal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid signal ID", http.StatusBadRequest)
		return
	}

	var closeRequest struct {
		Status    string   `json:"status"`
		ExitPrice *float64 `json:"exit_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&closeRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch closeRequest.Status {
	case models.SignalClosedTP, models.SignalClosedSL, models.SignalClosedTime, models.SignalCanceled:
	default:
		http.Error(w, "Invalid close status", http.StatusBadRequest)
		return
	}

	var signal models.Signal
	if err := h.db.First(&signal, id).Error; err != nil {
		http.Error(w, "Signal not found", http.StatusNotFound)
		return
	}

	if signal.Closed() {
		http.Error(w, "Signal is already closed", http.StatusConflict)
		return
	}

	now := time.Now()
	signal.Status = closeRequest.Status
	signal.ClosedAt = &now
	if closeRequest.ExitPrice != nil {
		signal.ExitPrice = closeRequest.ExitPrice
		pnl := realizedPnlPct(signal.Direction, signal.EntryPrice, *closeRequest.ExitPrice)
		signal.PnlPct = &pnl
	}

	if err := h.db.Save(&signal).Error; err != nil {
		http.Error(w, "Error closing signal", http.StatusInternalServerError)
		return
	}

	if h.publisher != nil {
		h.publisher.PublishSignal("signal_closed", signal)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(signal)
}

// realizedPnlPct computes the percentage result of a closed position.
func realizedPnlPct(direction string, entry, exit float64) float64 {
	if entry == 0 {
		return 0
	}
	pnl := (exit - entry) / entry * 100
	if direction == models.DirectionShort {
		pnl = -pnl
	}
	return pnl
}

func (h *SignalHandler) DeleteSignal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid signal ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.Signal{}, id)
	if result.Error != nil {
		http.Error(w, "Error deleting signal", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Signal not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Signal deleted successfully",
	})
}

// CreateBatchSignals creates multiple signals at once
func (h *SignalHandler) CreateBatchSignals(w http.ResponseWriter, r *http.Request) {
	var signals []models.Signal
	if err := json.NewDecoder(r.Body).Decode(&signals); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for i := range signals {
		if signals[i].Status == "" {
			signals[i].Status = models.SignalActive
		}
		if signals[i].OpenedAt.IsZero() {
			signals[i].OpenedAt = time.Now()
		}
		if signals[i].HoldTimeHours == 0 {
			signals[i].HoldTimeHours = models.DefaultHoldTimeHours(signals[i].Symbol)
		}
		if signals[i].TotalChecks == 0 {
			signals[i].TotalChecks = 11
		}
		if err := validateSignal(&signals[i]); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for i := range signals {
			if err := tx.Create(&signals[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		http.Error(w, "Error creating signals: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if h.publisher != nil {
		for _, s := range signals {
			h.publisher.PublishSignal("signal_opened", s)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(signals)
}

// GetVisibleSignals returns the active signals the caller is entitled to
// see under their plan and pair selection.
func (h *SignalHandler) GetVisibleSignals(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	plan, selectedPairs := h.entitlementInputs(userID)

	var candidates []models.Signal
	if err := h.db.Where("status = ?", models.SignalActive).
		Order("opened_at DESC").Find(&candidates).Error; err != nil {
		http.Error(w, "Error retrieving signals", http.StatusInternalServerError)
		return
	}

	visible := VisibleSignals(plan, selectedPairs, candidates)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"plan":    plan,
		"signals": visible,
	})
}

// entitlementInputs loads the plan and pair selection driving a user's
// signal visibility. Missing records degrade to free/nil rather than
// erroring, matching the read-only posture toward those collections.
func (h *SignalHandler) entitlementInputs(userID uint) (models.Plan, []string) {
	plan := models.PlanFree
	now := time.Now()

	var subscription models.Subscription
	err := h.db.Where("user_id = ? AND status IN ? AND (current_period_end IS NULL OR current_period_end >= ?)",
		userID, []string{models.SubStatusActive, models.SubStatusTrialing}, now).
		Order("current_period_end DESC NULLS LAST").
		First(&subscription).Error
	if err == nil {
		plan = subscription.Plan
	}

	var prefs models.UserPreferences
	if err := h.db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return plan, nil
	}
	return plan, prefs.SelectedPairs
}

// LiveSignal decorates an open signal with the labels the signal desk
// shows next to it.
type LiveSignal struct {
	models.Signal
	TimeElapsed   string `json:"time_elapsed"`
	TimeRemaining string `json:"time_remaining"`
}

// GetLiveDesk is the public live-desk view: every open signal with
// elapsed/remaining labels plus the aggregate momentum block.
func (h *SignalHandler) GetLiveDesk(w http.ResponseWriter, r *http.Request) {
	var open []models.Signal
	if err := h.db.Where("status = ?", models.SignalActive).
		Order("opened_at ASC").Find(&open).Error; err != nil {
		http.Error(w, "Error retrieving signals", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	live := make([]LiveSignal, 0, len(open))
	for _, s := range open {
		live = append(live, LiveSignal{
			Signal:        s,
			TimeElapsed:   utils.ElapsedLabel(s.OpenedAt, now),
			TimeRemaining: utils.RemainingLabel(s.OpenedAt, s.HoldTimeHours, now),
		})
	}

	stats := map[string]interface{}{
		"tracked":          len(open),
		"average_pnl_pct":  AveragePnl(open),
		"profitable_count": ProfitableCount(open),
	}
	if best := BestSignal(open); best != nil {
		stats["best"] = best
	}
	if worst := WorstSignal(open); worst != nil {
		stats["worst"] = worst
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"signals": live,
		"stats":   stats,
	})
}

// GetSignalStats retrieves aggregate statistics about signals
func (h *SignalHandler) GetSignalStats(w http.ResponseWriter, r *http.Request) {
	var stats struct {
		TotalCount   int64          `json:"total_count"`
		SymbolCounts map[string]int `json:"symbol_counts"`
		StatusCounts map[string]int `json:"status_counts"`
	}

	stats.SymbolCounts = make(map[string]int)
	stats.StatusCounts = make(map[string]int)

	h.db.Model(&models.Signal{}).Count(&stats.TotalCount)

	var symbolResults []struct {
		Symbol string
		Count  int
	}
	h.db.Model(&models.Signal{}).Select("symbol, count(*) as count").Group("symbol").Find(&symbolResults)
	for _, result := range symbolResults {
		stats.SymbolCounts[result.Symbol] = result.Count
	}

	var statusResults []struct {
		Status string
		Count  int
	}
	h.db.Model(&models.Signal{}).Select("status, count(*) as count").Group("status").Find(&statusResults)
	for _, result := range statusResults {
		stats.StatusCounts[result.Status] = result.Count
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
