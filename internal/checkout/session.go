package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posdash/internal/cart"
	"posdash/internal/domain"
	"posdash/internal/pricing"
)

// State is the checkout protocol state. A session leaves a terminal state
// only through Acknowledge.
type State string

const (
	StateIdle       State = "IDLE"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// CatalogService supplies the product snapshot the cart clamps against.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// TransactionService records a sale as a single atomic unit.
type TransactionService interface {
	CreateTransaction(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error)
}

// SettingsService supplies the business settings, read-only here.
type SettingsService interface {
	GetSettings(ctx context.Context) (*domain.Business, error)
}

// View is the render-ready projection of the session for whatever layer
// presents it.
type View struct {
	Lines    []cart.Line     `json:"lines"`
	Summary  pricing.Summary `json:"summary"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Currency string          `json:"currency"`
	State    State           `json:"state"`
	Message  string          `json:"message,omitempty"`
}

// Session owns one sale's cart and drives the submission protocol
// IDLE -> SUBMITTING -> {SUCCEEDED, FAILED} -> IDLE. It is created when the
// sale session starts and torn down with it; the cart inside is never
// shared with another session.
type Session struct {
	catalog  CatalogService
	txns     TransactionService
	settings SettingsService
	logger   *log.Logger

	mu       sync.Mutex
	cart     *cart.Cart
	products []domain.Product
	taxRate  decimal.Decimal
	currency string
	state    State
	message  string
	idemKey  string
}

func NewSession(catalog CatalogService, txns TransactionService, settings SettingsService, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		catalog:  catalog,
		txns:     txns,
		settings: settings,
		logger:   logger,
		cart:     cart.New(),
		taxRate:  decimal.Zero,
		state:    StateIdle,
	}
}

// Load fetches the catalog snapshot and business settings. It is called
// once at session start and may be called again to refresh; lines already
// in the cart are reconciled against the fresh snapshot.
func (s *Session) Load(ctx context.Context) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.mu.Lock()
		s.message = "Failed to load catalog."
		s.mu.Unlock()
		return fmt.Errorf("load catalog: %w", err)
	}
	business, err := s.settings.GetSettings(ctx)
	if err != nil {
		s.mu.Lock()
		s.message = "Failed to load settings."
		s.mu.Unlock()
		return fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.taxRate = business.TaxRate
	s.currency = business.Currency
	s.cart.Reconcile(products)
	return nil
}

// Products returns the current catalog snapshot.
func (s *Session) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// AddItem adds one unit of the product to the cart, resolved against the
// current snapshot. Unknown products and exhausted stock are no-ops.
func (s *Session) AddItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == productID {
			s.cart.Add(p)
			return
		}
	}
}

// AdjustQuantity moves a cart line by delta under the cart's clamping rules.
func (s *Session) AdjustQuantity(productID int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Adjust(productID, delta)
}

// SetQuantity sets a cart line's quantity under the cart's clamping rules.
func (s *Session) SetQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(productID, quantity)
}

// RemoveItem drops a cart line; absent lines are a no-op.
func (s *Session) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
}

// ClearCart empties the cart and abandons the pending idempotency key.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.idemKey = ""
}

// Submit runs one checkout attempt. An empty cart or an attempt already in
// flight is a silent no-op with no network call. The sale request carries
// an idempotency key generated for the first attempt on this cart and kept
// across failed retries, so a retry after a lost response cannot record the
// sale twice.
//
// Success clears the cart, refreshes the catalog snapshot and surfaces a
// confirmation with the grand total computed before clearing. Failure of
// any kind leaves the cart untouched and surfaces a generic message; the
// distinction between a backend rejection and a transport failure only
// changes the text, never the transition.
func (s *Session) Submit(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateIdle || s.cart.IsEmpty() {
		s.mu.Unlock()
		return
	}
	if s.idemKey == "" {
		s.idemKey = uuid.NewString()
	}
	sale := domain.SaleRequest{
		Items:          s.cart.SaleItems(),
		IdempotencyKey: s.idemKey,
	}
	total := pricing.Summarize(s.cart.Lines(), s.taxRate)
	s.state = StateSubmitting
	s.message = ""
	s.mu.Unlock()

	_, err := s.txns.CreateTransaction(ctx, sale)
	if err != nil {
		s.logger.Printf("checkout: submit key=%s failed: %v", sale.IdempotencyKey, err)
		s.mu.Lock()
		s.state = StateFailed
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.message = "Transaction declined: not enough stock. Adjust quantities and try again."
		} else {
			s.message = "Transaction failed. Please try again."
		}
		s.mu.Unlock()
		return
	}

	// Post-sale stock figures must be accurate for the next sale. A failed
	// refresh keeps the stale snapshot; the sale itself already succeeded.
	products, refreshErr := s.catalog.ListProducts(ctx)
	if refreshErr != nil {
		s.logger.Printf("checkout: catalog refresh after sale failed: %v", refreshErr)
	}

	s.mu.Lock()
	s.cart.Clear()
	s.idemKey = ""
	if refreshErr == nil {
		s.products = products
	}
	s.state = StateSucceeded
	s.message = fmt.Sprintf("Sale complete! Total: %s%s", currencySymbol(s.currency), total.DisplayTotal())
	s.mu.Unlock()
	s.logger.Printf("checkout: sale recorded key=%s lines=%d total=%s", sale.IdempotencyKey, len(sale.Items), total.DisplayTotal())
}

// Acknowledge returns the session to IDLE after a terminal state has been
// observed. Outside a terminal state it does nothing.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsTerminal() {
		s.state = StateIdle
	}
}

// CurrentView projects the session for rendering: ordered cart lines, the
// freshly recomputed pricing summary, protocol state and the last message.
func (s *Session) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.cart.Lines()
	return View{
		Lines:    lines,
		Summary:  pricing.Summarize(lines, s.taxRate),
		TaxRate:  s.taxRate,
		Currency: s.currency,
		State:    s.state,
		Message:  s.message,
	}
}

func currencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return "$"
	}
}
