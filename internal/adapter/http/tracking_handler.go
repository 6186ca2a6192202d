package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/interfaces"
)

type TrackingHandler struct {
	service interfaces.TrackingService
	logger  logger.Logger
}

func NewTrackingHandler(service interfaces.TrackingService, logger logger.Logger) *TrackingHandler {
	return &TrackingHandler{
		service: service,
		logger:  logger,
	}
}

// HandleOrders routes /orders/{id}/status and /orders/{id}/feedback.
func (h *TrackingHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 3 {
		switch parts[2] {
		case "status":
			h.getOrderStatus(w, r, parts[1])
			return
		case "feedback":
			h.getOrderFeedback(w, r, parts[1])
			return
		}
	}
	http.Error(w, "Not found", http.StatusNotFound)
}

func (h *TrackingHandler) getOrderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	result, err := h.service.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orderStatusResponse(result))
}

func (h *TrackingHandler) getOrderFeedback(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	feedback, err := h.service.GetOrderFeedback(r.Context(), orderID)
	if err != nil {
		respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	resp := make([]map[string]interface{}, len(feedback))
	for i, fb := range feedback {
		resp[i] = map[string]interface{}{
			"feedback_id":    fb.ID,
			"item":           fb.Item,
			"coffee_rating":  fb.CoffeeRating,
			"service_rating": fb.ServiceRating,
			"review":         fb.Review,
			"submitted_at":   fb.SubmittedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetPendingOrders lists a branch's unprepared orders, oldest first.
func (h *TrackingHandler) GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	branchID := r.URL.Query().Get("branch")
	if branchID == "" {
		respondError(w, "branch query parameter is required", http.StatusBadRequest, nil)
		return
	}

	pending, err := h.service.GetPendingOrders(r.Context(), branchID)
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]map[string]interface{}, len(pending))
	for i, entry := range pending {
		resp[i] = orderStatusResponse(entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *TrackingHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	customer := r.URL.Query().Get("customer")
	if customer == "" {
		respondError(w, "customer query parameter is required", http.StatusBadRequest, nil)
		return
	}

	orders, err := h.service.GetOrderHistory(r.Context(), customer)
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]map[string]interface{}, len(orders))
	for i, order := range orders {
		resp[i] = map[string]interface{}{
			"order_id":       order.ID,
			"branch_id":      order.BranchID,
			"lines":          order.Lines,
			"total_quantity": order.TotalQuantity,
			"total_price":    order.TotalPrice,
			"ordered_at":     order.OrderedAt,
			"prepared_at":    order.PreparedAt,
			"prepared_by":    order.PreparedBy,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetPickupBoard lists today's orders for a customer with their preparation
// status, newest first.
func (h *TrackingHandler) GetPickupBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	customer := r.URL.Query().Get("customer")
	if customer == "" {
		respondError(w, "customer query parameter is required", http.StatusBadRequest, nil)
		return
	}

	day := time.Now()
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			respondError(w, "date must be formatted as YYYY-MM-DD", http.StatusBadRequest, nil)
			return
		}
		day = parsed
	}

	board, err := h.service.GetPickupBoard(r.Context(), customer, day)
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]map[string]interface{}, len(board))
	for i, entry := range board {
		resp[i] = orderStatusResponse(entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *TrackingHandler) GetBaristasStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	h.logger.Debug("request_received", "Baristas status requested", "", nil)

	baristas, err := h.service.GetBaristasStatus(r.Context())
	if err != nil {
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	resp := make([]map[string]interface{}, len(baristas))
	for i, barista := range baristas {
		resp[i] = map[string]interface{}{
			"barista_name":    barista.Name,
			"branch_id":       barista.BranchID,
			"status":          barista.Status,
			"orders_prepared": barista.OrdersPrepared,
			"last_seen":       barista.LastSeen,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type SubmitFeedbackRequest struct {
	OrderID       string `json:"order_id"`
	Customer      string `json:"customer"`
	Item          string `json:"item"`
	CoffeeRating  int    `json:"coffee_rating"`
	ServiceRating int    `json:"service_rating"`
	Review        string `json:"review"`
}

func (h *TrackingHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.OrderID == "" || req.Customer == "" {
		respondError(w, "order_id and customer are required", http.StatusBadRequest, nil)
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), interfaces.FeedbackCommand{
		OrderID:       req.OrderID,
		Customer:      req.Customer,
		Item:          req.Item,
		CoffeeRating:  req.CoffeeRating,
		ServiceRating: req.ServiceRating,
		Review:        req.Review,
	})
	if err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"feedback_id":  feedback.ID,
		"order_id":     feedback.OrderID,
		"submitted_at": feedback.SubmittedAt,
	})
}

func orderStatusResponse(s *interfaces.OrderStatusResponse) map[string]interface{} {
	return map[string]interface{}{
		"order_id":        s.OrderID,
		"branch_id":       s.BranchID,
		"customer":        s.Customer,
		"lines":           s.Lines,
		"total_price":     s.TotalPrice,
		"status":          s.Status,
		"ordered_at":      s.OrderedAt,
		"prepared_at":     s.PreparedAt,
		"prepared_by":     s.PreparedBy,
		"estimated_ready": s.EstimatedReady,
	}
}
