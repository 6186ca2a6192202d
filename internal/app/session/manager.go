package session

import (
	"context"
	"sync"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// Session is one customer's transient state: the cart plus the applied
// discount instruments. It replaces the ambient per-page session storage of
// a UI-driven design with an explicit object handed to the checkout workflow.
type Session struct {
	Customer  string
	Cart      *domain.Cart
	Promotion *domain.Instrument
	Coupon    *domain.Instrument
}

// Manager owns the sessions, keyed by customer. All access goes through the
// manager's mutex: carts themselves are not safe for concurrent use.
type Manager struct {
	menu      domain.Menu
	promoRepo interfaces.PromotionRepository
	logger    logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(menu domain.Menu, promoRepo interfaces.PromotionRepository, logger logger.Logger) *Manager {
	return &Manager{
		menu:      menu,
		promoRepo: promoRepo,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the customer's session, creating it on first use.
func (m *Manager) Session(customer string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(customer)
}

func (m *Manager) session(customer string) *Session {
	sess, ok := m.sessions[customer]
	if !ok {
		sess = &Session{Customer: customer, Cart: &domain.Cart{}}
		m.sessions[customer] = sess
	}
	return sess
}

func (m *Manager) AddItem(ctx context.Context, customer, item string, quantity int, branchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(customer).Cart.Add(m.menu, item, quantity, branchID)
}

func (m *Manager) RemoveItem(ctx context.Context, customer string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(customer).Cart.Remove(index)
}

func (m *Manager) ClearCart(customer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(customer)
	sess.Cart.Clear()
	sess.Promotion = nil
	sess.Coupon = nil
}

func (m *Manager) ViewCart(ctx context.Context, customer string) (*interfaces.CartView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(customer)
	view := &interfaces.CartView{
		Lines:  sess.Cart.Lines(),
		Totals: domain.TotalDue(m.menu, sess.Cart.Lines(), sess.Promotion, sess.Coupon),
	}
	if sess.Promotion != nil {
		view.Promotion = sess.Promotion.DisplayName()
	}
	if sess.Coupon != nil {
		view.Coupon = sess.Coupon.DisplayName()
	}
	return view, nil
}

// ApplyCoupon validates the code against the store and pins the coupon to
// the session. Expiration is checked now; the checkout workflow re-checks it
// before pricing.
func (m *Manager) ApplyCoupon(ctx context.Context, customer, code string) (*domain.Instrument, error) {
	coupon, err := m.promoRepo.FindCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon.Expired(time.Now()) {
		return nil, domain.ErrInstrumentExpired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(customer).Coupon = coupon

	m.logger.Debug("coupon_applied", "Coupon applied to session", customer, map[string]interface{}{
		"coupon": coupon.CouponCode,
	})
	return coupon, nil
}

// ApplyPromotion pins an active promotion by name. The promotion must cover
// at least one item already in the cart.
func (m *Manager) ApplyPromotion(ctx context.Context, customer, name string) (*domain.Instrument, error) {
	active, err := m.promoRepo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	var promo *domain.Instrument
	for _, ins := range active {
		if ins.Type == domain.InstrumentPromotion && ins.Name == name {
			promo = ins
			break
		}
	}
	if promo == nil {
		return nil, domain.ErrPromotionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(customer)
	covered := false
	for _, item := range promo.Items {
		if sess.Cart.Contains(item) {
			covered = true
			break
		}
	}
	if !covered {
		return nil, domain.ErrPromotionNotApplicable
	}

	sess.Promotion = promo
	m.logger.Debug("promotion_applied", "Promotion applied to session", customer, map[string]interface{}{
		"promotion": promo.Name,
	})
	return promo, nil
}

// CheckoutRequest assembles the workflow input from the session state. The
// cart lines are copied under the lock, and the request's ClearCart routes
// back through the manager so the workflow never mutates the live cart.
func (m *Manager) CheckoutRequest(customer, branchID string) interfaces.CheckoutRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(customer)
	return interfaces.CheckoutRequest{
		Customer:  customer,
		BranchID:  branchID,
		Lines:     sess.Cart.Lines(),
		Promotion: sess.Promotion,
		Coupon:    sess.Coupon,
		ClearCart: func() { m.clearCartLines(customer) },
	}
}

// clearCartLines empties the cart but keeps the applied instruments; the
// caller decides separately whether to unapply them.
func (m *Manager) clearCartLines(customer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(customer).Cart.Clear()
}

// ClearInstruments unapplies both discount instruments, keeping the cart.
// Called after a completed checkout.
func (m *Manager) ClearInstruments(customer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(customer)
	sess.Promotion = nil
	sess.Coupon = nil
}
