package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/interfaces"
)

// AdminHandler is the staff surface: promotions, inventory and sales reports.
type AdminHandler struct {
	promotions interfaces.PromotionService
	inventory  interfaces.InventoryService
	reporting  interfaces.ReportingService
	logger     logger.Logger
}

func NewAdminHandler(
	promotions interfaces.PromotionService,
	inventory interfaces.InventoryService,
	reporting interfaces.ReportingService,
	logger logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		promotions: promotions,
		inventory:  inventory,
		reporting:  reporting,
		logger:     logger,
	}
}

type CreatePromotionRequest struct {
	Type            string   `json:"type"`
	Name            string   `json:"name,omitempty"`
	CouponCode      string   `json:"coupon_code,omitempty"`
	Items           []string `json:"items"`
	DiscountPercent int      `json:"discount_percent"`
	ExpiresAt       string   `json:"expires_at"`
}

// HandlePromotions routes /admin/promotions and /admin/promotions/{id}.
func (h *AdminHandler) HandlePromotions(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.listPromotions(w, r)
	case len(parts) == 2 && r.Method == http.MethodPost:
		h.createPromotion(w, r)
	case len(parts) == 3 && r.Method == http.MethodDelete:
		h.terminatePromotion(w, r, parts[2])
	default:
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
	}
}

func (h *AdminHandler) listPromotions(w http.ResponseWriter, r *http.Request) {
	active, err := h.promotions.ListActive(r.Context())
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]map[string]interface{}, len(active))
	for i, ins := range active {
		resp[i] = map[string]interface{}{
			"id":               ins.ID,
			"type":             ins.Type,
			"name":             ins.DisplayName(),
			"items":            ins.Items,
			"discount_percent": ins.DiscountPercent,
			"expires_at":       ins.ExpiresAt.Format("2006-01-02"),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AdminHandler) createPromotion(w http.ResponseWriter, r *http.Request) {
	var req CreatePromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	expiresAt, err := time.Parse("2006-01-02", req.ExpiresAt)
	if err != nil {
		respondError(w, "expires_at must be formatted as YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}

	ins, err := h.promotions.Create(r.Context(), interfaces.CreatePromotionCommand{
		Type:            req.Type,
		Name:            req.Name,
		CouponCode:      req.CouponCode,
		Items:           req.Items,
		DiscountPercent: req.DiscountPercent,
		ExpiresAt:       expiresAt,
	})
	if err != nil {
		h.logger.Error("promotion_creation_failed", "Failed to create promotion", "", nil, err)
		respondError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":         ins.ID,
		"type":       ins.Type,
		"name":       ins.DisplayName(),
		"expires_at": ins.ExpiresAt.Format("2006-01-02"),
	})
}

func (h *AdminHandler) terminatePromotion(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.promotions.Terminate(r.Context(), id); err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	branchID := r.URL.Query().Get("branch")
	if branchID == "" {
		respondError(w, "branch query parameter is required", http.StatusBadRequest, nil)
		return
	}

	overview, err := h.inventory.Overview(r.Context(), branchID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inventoryResponse(overview))
}

type RestockRequest struct {
	BranchID string `json:"branch_id"`
	Resource string `json:"resource"`
	Quantity int    `json:"quantity"`
}

func (h *AdminHandler) Restock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.BranchID == "" || req.Resource == "" {
		respondError(w, "branch_id and resource are required", http.StatusBadRequest, nil)
		return
	}

	overview, err := h.inventory.Restock(r.Context(), req.BranchID, req.Resource, req.Quantity)
	if err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inventoryResponse(overview))
}

func (h *AdminHandler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	branchID := r.URL.Query().Get("branch")
	if branchID == "" {
		respondError(w, "branch query parameter is required", http.StatusBadRequest, nil)
		return
	}

	summary, err := h.reporting.SalesSummary(r.Context(), branchID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	byItem := make([]map[string]interface{}, len(summary.ByItem))
	for i, item := range summary.ByItem {
		byItem[i] = map[string]interface{}{
			"item":    item.Item,
			"units":   item.Units,
			"revenue": item.Revenue,
			"cost":    item.Cost,
		}
	}
	byDay := make([]map[string]interface{}, len(summary.ByDay))
	for i, day := range summary.ByDay {
		byDay[i] = map[string]interface{}{
			"day":     day.Day,
			"orders":  day.Orders,
			"revenue": day.Revenue,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"branch_id":  summary.BranchID,
		"orders":     summary.Orders,
		"units_sold": summary.UnitsSold,
		"revenue":    summary.Revenue,
		"cost":       summary.Cost,
		"profit":     summary.Profit,
		"by_item":    byItem,
		"by_day":     byDay,
	})
}

func inventoryResponse(o *interfaces.InventoryOverview) map[string]interface{} {
	lowStock := make([]map[string]interface{}, len(o.LowStock))
	for i, alert := range o.LowStock {
		lowStock[i] = map[string]interface{}{
			"resource":  alert.Resource,
			"quantity":  alert.Quantity,
			"threshold": alert.Threshold,
		}
	}

	return map[string]interface{}{
		"branch_id":   o.BranchID,
		"branch_name": o.BranchName,
		"stock":       o.Stock,
		"low_stock":   lowStock,
	}
}
