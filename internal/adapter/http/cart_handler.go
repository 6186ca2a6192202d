package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/app/session"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// CartHandler owns the session-facing surface: cart mutation, discount
// application and checkout.
type CartHandler struct {
	sessions *session.Manager
	checkout interfaces.CheckoutService
	logger   logger.Logger
}

func NewCartHandler(sessions *session.Manager, checkout interfaces.CheckoutService, logger logger.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		checkout: checkout,
		logger:   logger,
	}
}

type AddItemRequest struct {
	Customer string `json:"customer"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	BranchID string `json:"branch_id"`
}

type RemoveItemRequest struct {
	Customer string `json:"customer"`
	Index    int    `json:"index"`
}

type ApplyInstrumentRequest struct {
	Customer string `json:"customer"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
}

type CheckoutHTTPRequest struct {
	Customer string `json:"customer"`
	BranchID string `json:"branch_id"`
}

type CheckoutResponse struct {
	State          string                    `json:"state"`
	Steps          []interfaces.CheckoutStep `json:"steps"`
	OrderID        string                    `json:"order_id,omitempty"`
	TotalPrice     float64                   `json:"total_price,omitempty"`
	PaymentURL     string                    `json:"payment_url,omitempty"`
	PaymentWarning string                    `json:"payment_warning,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Letters, spaces, hyphens and apostrophes.
var customerNameRegex = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validateAddItemRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Add item validation failed", "", map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	if err := h.sessions.AddItem(r.Context(), strings.TrimSpace(req.Customer), req.Item, req.Quantity, req.BranchID); err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	h.viewCart(w, r, req.Customer)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := h.sessions.RemoveItem(r.Context(), req.Customer, req.Index); err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	h.viewCart(w, r, req.Customer)
}

func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	customer := r.URL.Query().Get("customer")
	if customer == "" {
		respondError(w, "customer query parameter is required", http.StatusBadRequest, nil)
		return
	}

	h.viewCart(w, r, customer)
}

func (h *CartHandler) viewCart(w http.ResponseWriter, r *http.Request, customer string) {
	view, err := h.sessions.ViewCart(r.Context(), customer)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	resp := map[string]interface{}{
		"lines":     view.Lines,
		"base":      view.Totals.Base,
		"discount":  view.Totals.Discount,
		"total_due": view.Totals.Due,
	}
	if view.Promotion != "" {
		resp["promotion"] = view.Promotion
	}
	if view.Coupon != "" {
		resp["coupon"] = view.Coupon
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req ApplyInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.Customer == "" || req.Code == "" {
		respondError(w, "customer and code are required", http.StatusBadRequest, nil)
		return
	}

	coupon, err := h.sessions.ApplyCoupon(r.Context(), req.Customer, req.Code)
	if err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"coupon":           coupon.CouponCode,
		"discount_percent": coupon.DiscountPercent,
		"items":            coupon.Items,
	})
}

func (h *CartHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req ApplyInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.Customer == "" || req.Name == "" {
		respondError(w, "customer and name are required", http.StatusBadRequest, nil)
		return
	}

	promo, err := h.sessions.ApplyPromotion(r.Context(), req.Customer, req.Name)
	if err != nil {
		respondError(w, err.Error(), statusForError(err), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"promotion":        promo.Name,
		"discount_percent": promo.DiscountPercent,
		"items":            promo.Items,
	})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}

	var req CheckoutHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.Customer == "" || req.BranchID == "" {
		respondError(w, "customer and branch_id are required", http.StatusBadRequest, nil)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), h.sessions.CheckoutRequest(req.Customer, req.BranchID))
	if err != nil && result == nil {
		h.logger.Error("checkout_failed", "Checkout failed", req.Customer, nil, err)
		respondError(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	resp := CheckoutResponse{
		State:          string(result.State),
		Steps:          result.Steps,
		OrderID:        result.OrderID,
		TotalPrice:     result.TotalPrice,
		PaymentURL:     result.PaymentURL,
		PaymentWarning: result.PaymentWarning,
	}

	status := http.StatusCreated
	if result.State != interfaces.StateCompleted {
		status = statusForError(err)
		if status == http.StatusInternalServerError && err != nil {
			status = http.StatusBadRequest
		}
	} else {
		// Applied discounts are single use per checkout.
		h.sessions.ClearInstruments(req.Customer)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func validateAddItemRequest(req AddItemRequest) []ValidationError {
	var errs []ValidationError

	customer := strings.TrimSpace(req.Customer)
	if len(customer) < 1 {
		errs = append(errs, ValidationError{
			Field:   "customer",
			Message: "customer name is required",
		})
	} else if len(customer) > 100 {
		errs = append(errs, ValidationError{
			Field:   "customer",
			Message: "customer name must not exceed 100 characters",
		})
	} else if !customerNameRegex.MatchString(customer) {
		errs = append(errs, ValidationError{
			Field:   "customer",
			Message: "customer name must contain only letters, spaces, hyphens, and apostrophes",
		})
	}

	if strings.TrimSpace(req.Item) == "" {
		errs = append(errs, ValidationError{
			Field:   "item",
			Message: "item name is required",
		})
	}

	if req.Quantity < 1 {
		errs = append(errs, ValidationError{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		})
	} else if req.Quantity > 20 {
		errs = append(errs, ValidationError{
			Field:   "quantity",
			Message: "quantity must not exceed 20",
		})
	}

	if strings.TrimSpace(req.BranchID) == "" {
		errs = append(errs, ValidationError{
			Field:   "branch_id",
			Message: "branch id is required",
		})
	}

	return errs
}

func statusForError(err error) int {
	var stockErr *domain.InsufficientStockError

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrUnknownItem),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInstrumentExpired),
		errors.Is(err, domain.ErrPromotionNotApplicable):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCouponNotFound),
		errors.Is(err, domain.ErrPromotionNotFound),
		errors.Is(err, domain.ErrBranchNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStockConflict),
		errors.As(err, &stockErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	}

	json.NewEncoder(w).Encode(errResp)
}
