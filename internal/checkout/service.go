package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

var (
	// ErrEmptyCart is returned when there is nothing to check out.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSignInRequired is returned when no user is signed in.
	ErrSignInRequired = errors.New("sign in required")
	// ErrSubmitFailed wraps any failure reported by the submitter.
	ErrSubmitFailed = errors.New("order submission failed")
	// ErrInProgress is returned while another checkout of the same cart runs.
	ErrInProgress = errors.New("checkout already in progress")
)

// SubmitInput is what the core hands to the order collaborator.
type SubmitInput struct {
	UserID string
	Lines  []domain.CartLine
	Total  decimal.Decimal
}

// Submitter persists an order and assigns its ID, creation time and
// initial status.
type Submitter interface {
	Submit(ctx context.Context, in SubmitInput) (*domain.Order, error)
}

// Receipt is the outcome of a successful checkout.
type Receipt struct {
	Order   domain.Order    `json:"order"`
	Summary pricing.Summary `json:"summary"`
}

type Service struct {
	submitter Submitter
	logger    *log.Logger

	mu       sync.Mutex
	inflight map[*store.Cart]struct{}
}

func New(submitter Submitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		submitter: submitter,
		logger:    logger,
		inflight:  make(map[*store.Cart]struct{}),
	}
}

// Checkout submits the cart for the signed-in user. Only after the submitter
// succeeds are the submitted lines taken out of the cart; on any error it is
// left exactly as it was. One checkout per cart runs at a time.
func (s *Service) Checkout(ctx context.Context, cart *store.Cart, account *store.Account) (*Receipt, error) {
	user, ok := account.User()
	if !ok {
		return nil, ErrSignInRequired
	}
	if !s.acquire(cart) {
		return nil, ErrInProgress
	}
	defer s.release(cart)

	state := cart.State()
	if len(state.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	summary := pricing.Compute(state.Total)
	in := SubmitInput{
		UserID: user.ID,
		Lines:  state.Lines,
		Total:  summary.Total.Round(2),
	}
	order, err := s.submitter.Submit(ctx, in)
	if err != nil {
		s.logger.Printf("checkout: submit user_id=%s lines=%d error=%v", user.ID, len(in.Lines), err)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: submitter returned no order", ErrSubmitFailed)
	}

	placed := *order
	if placed.Status == "" {
		placed.Status = domain.OrderStatusPending
	}
	if placed.Lines == nil {
		placed.Lines = in.Lines
	}
	if placed.UserID == "" {
		placed.UserID = user.ID
	}
	placed.Total = in.Total

	account.AddOrder(placed)
	cart.RemoveLines(in.Lines)
	s.logger.Printf("checkout: placed order_id=%s user_id=%s total=%s", placed.ID, user.ID, placed.Total.StringFixed(2))
	return &Receipt{Order: placed, Summary: summary}, nil
}

func (s *Service) acquire(cart *store.Cart) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[cart]; busy {
		return false
	}
	s.inflight[cart] = struct{}{}
	return true
}

func (s *Service) release(cart *store.Cart) {
	s.mu.Lock()
	delete(s.inflight, cart)
	s.mu.Unlock()
}
