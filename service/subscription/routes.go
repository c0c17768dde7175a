package subscription

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
	"github.com/LucasAbreu89/crypto-trading/cmd/utils"
	"github.com/LucasAbreu89/crypto-trading/service/preferences"
)

// Response is a standardized API response structure
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
	Error string      `json:"error,omitempty"`
}

// SubscriptionFilter represents all possible filters for subscriptions
type SubscriptionFilter struct {
	UserID    uint
	Plan      string
	Status    string
	IsExpired *bool // nil: not filtered
}

// SubscriptionResponse extends the subscription model with derived fields
type SubscriptionResponse struct {
	models.Subscription
	IsExpired   bool               `json:"is_expired"`
	Entitlement models.Entitlement `json:"entitlement"`
}

type SubscriptionHandler struct {
	db *gorm.DB
}

func NewSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	return &SubscriptionHandler{db: db}
}

func (h *SubscriptionHandler) RegisterRoutes(router *mux.Router) {
	subscriptionRouter := router.PathPrefix("/subscriptions").Subrouter()

	subscriptionRouter.HandleFunc("", utils.AuthMiddleware(h.GetSubscriptions)).Methods("GET")
	subscriptionRouter.HandleFunc("/plans", h.GetPlans).Methods("GET")
	subscriptionRouter.HandleFunc("/{id:[0-9]+}", utils.AuthMiddleware(h.GetSubscription)).Methods("GET")
	subscriptionRouter.HandleFunc("/user/{userID:[0-9]+}", utils.AuthMiddleware(h.GetUserSubscriptions)).Methods("GET")
	subscriptionRouter.HandleFunc("/user/{userID:[0-9]+}/active", utils.AuthMiddleware(h.GetActiveSubscription)).Methods("GET")
	subscriptionRouter.HandleFunc("/user/{userID:[0-9]+}/plan", utils.AuthMiddleware(h.ChangePlan)).Methods("PUT")
}

// GetPlans returns the public plan catalog with entitlements
func (h *SubscriptionHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	type planInfo struct {
		Plan models.Plan `json:"plan"`
		models.Entitlement
	}
	plans := make([]planInfo, 0, len(models.Plans))
	for _, p := range models.Plans {
		plans = append(plans, planInfo{Plan: p, Entitlement: models.EntitlementFor(p)})
	}
	h.respondWithJSON(w, http.StatusOK, Response{Data: plans})
}

// GetSubscriptions handles retrieving subscriptions with various filters
func (h *SubscriptionHandler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	var filter SubscriptionFilter

	queryParams := r.URL.Query()

	if userIDStr := queryParams.Get("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err == nil {
			filter.UserID = uint(userID)
		}
	}

	if planStr := queryParams.Get("plan"); planStr != "" {
		plan, err := models.ParsePlan(planStr)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Invalid plan parameter")
			return
		}
		filter.Plan = string(plan)
	}

	filter.Status = queryParams.Get("status")

	if expiredStr := queryParams.Get("expired"); expiredStr != "" {
		isExpired, err := strconv.ParseBool(expiredStr)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Invalid expired parameter. Use 'true' or 'false'")
			return
		}
		filter.IsExpired = &isExpired
	}

	query := h.db.Model(&models.Subscription{})
	query = h.applySubscriptionFilters(query, filter)

	page := 1
	if pageStr := queryParams.Get("page"); pageStr != "" {
		if pageVal, err := strconv.Atoi(pageStr); err == nil && pageVal > 0 {
			page = pageVal
		}
	}

	pageSize := 10
	if pageSizeStr := queryParams.Get("page_size"); pageSizeStr != "" {
		if pageSizeVal, err := strconv.Atoi(pageSizeStr); err == nil && pageSizeVal > 0 && pageSizeVal <= 100 {
			pageSize = pageSizeVal
		}
	}

	offset := (page - 1) * pageSize

	var total int64
	query.Count(&total)

	var subscriptions []models.Subscription
	result := query.Limit(pageSize).Offset(offset).Find(&subscriptions)
	if result.Error != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}

	responseSubscriptions := make([]SubscriptionResponse, 0, len(subscriptions))
	now := time.Now()
	for _, sub := range subscriptions {
		responseSubscriptions = append(responseSubscriptions, toResponse(sub, now))
	}

	meta := map[string]interface{}{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"pages":     (total + int64(pageSize) - 1) / int64(pageSize),
	}

	h.respondWithJSON(w, http.StatusOK, Response{
		Data: responseSubscriptions,
		Meta: meta,
	})
}

func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var subscription models.Subscription
	if err := h.db.First(&subscription, id).Error; err != nil {
		h.respondWithError(w, http.StatusNotFound, "Subscription not found")
		return
	}

	h.respondWithJSON(w, http.StatusOK, Response{Data: toResponse(subscription, time.Now())})
}

func (h *SubscriptionHandler) GetUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userID"], 10, 32)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, userID).Error; err != nil {
		h.respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var subscriptions []models.Subscription
	if err := h.db.Where("user_id = ?", userID).Find(&subscriptions).Error; err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}

	now := time.Now()
	responseSubscriptions := make([]SubscriptionResponse, 0, len(subscriptions))
	for _, sub := range subscriptions {
		responseSubscriptions = append(responseSubscriptions, toResponse(sub, now))
	}

	h.respondWithJSON(w, http.StatusOK, Response{Data: responseSubscriptions})
}

// GetActiveSubscription gets the current active subscription for a user
func (h *SubscriptionHandler) GetActiveSubscription(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userID"], 10, 32)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	subscription, err := ActiveForUser(h.db, uint(userID), time.Now())
	if err != nil {
		h.respondWithError(w, http.StatusNotFound, "No active subscription found for this user")
		return
	}

	h.respondWithJSON(w, http.StatusOK, Response{Data: toResponse(*subscription, time.Now())})
}

// ActiveForUser resolves the subscription that currently governs a user's
// entitlements: active or trialing status and an unexpired period. The
// latest-expiring one wins when several overlap.
func ActiveForUser(db *gorm.DB, userID uint, now time.Time) (*models.Subscription, error) {
	var subscription models.Subscription
	err := db.Where("user_id = ? AND status IN ? AND (current_period_end IS NULL OR current_period_end >= ?)",
		userID, []string{models.SubStatusActive, models.SubStatusTrialing}, now).
		Order("current_period_end DESC NULLS LAST").
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// ChangePlan applies a plan update reported by the billing provider. The
// API key follows the plan's API entitlement and an over-capacity pair
// selection is trimmed so downgraded accounts stay legal.
func (h *SubscriptionHandler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userID"], 10, 32)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var changeRequest struct {
		Plan   string `json:"plan"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&changeRequest); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := models.ParsePlan(changeRequest.Plan)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var subscription models.Subscription
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").First(&subscription).Error; err != nil {
		h.respondWithError(w, http.StatusNotFound, "Subscription not found")
		return
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)

	tx := h.db.Begin()

	subscription.Plan = plan
	if changeRequest.Status != "" {
		subscription.Status = changeRequest.Status
	}
	subscription.CurrentPeriodStart = &now
	if plan == models.PlanFree {
		subscription.CurrentPeriodStart = nil
		subscription.CurrentPeriodEnd = nil
	} else {
		subscription.CurrentPeriodEnd = &periodEnd
	}

	entitlement := models.EntitlementFor(plan)
	if entitlement.HasAPI {
		if subscription.APIKey == "" {
			subscription.APIKey = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
	} else {
		subscription.APIKey = ""
	}

	if err := tx.Save(&subscription).Error; err != nil {
		tx.Rollback()
		h.respondWithError(w, http.StatusInternalServerError, "Error updating subscription")
		return
	}

	// Trim a pair selection that exceeds the new plan's capacity
	var prefs models.UserPreferences
	if err := tx.Where("user_id = ?", userID).First(&prefs).Error; err == nil {
		selection := preferences.NewSelection(plan, prefs.SelectedPairs)
		if selection.Len() != len(prefs.SelectedPairs) {
			prefs.SelectedPairs = selection.Pairs()
			if err := tx.Save(&prefs).Error; err != nil {
				tx.Rollback()
				h.respondWithError(w, http.StatusInternalServerError, "Error trimming pair selection")
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.respondWithJSON(w, http.StatusOK, Response{Data: toResponse(subscription, now)})
}

func toResponse(sub models.Subscription, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		Subscription: sub,
		IsExpired:    sub.IsExpired(now),
		Entitlement:  models.EntitlementFor(sub.Plan),
	}
}

func (h *SubscriptionHandler) applySubscriptionFilters(query *gorm.DB, filter SubscriptionFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if filter.Plan != "" {
		query = query.Where("plan = ?", filter.Plan)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	now := time.Now()
	if filter.IsExpired != nil {
		if *filter.IsExpired {
			query = query.Where("current_period_end < ?", now)
		} else {
			query = query.Where("current_period_end IS NULL OR current_period_end >= ?", now)
		}
	}

	return query
}

func (h *SubscriptionHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, Response{Error: message})
}

func (h *SubscriptionHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
