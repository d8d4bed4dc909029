package checkout

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"

	"storefront/internal/domain"
)

// BreakerSubmitter stops calling a failing submitter for a while after
// consecutive failures, so checkouts fail fast instead of piling up.
type BreakerSubmitter struct {
	next Submitter
	cb   *gobreaker.CircuitBreaker[*domain.Order]
}

func NewBreakerSubmitter(next Submitter, consecutiveFailures uint32, openFor time.Duration, logger *log.Logger) *BreakerSubmitter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if consecutiveFailures == 0 {
		consecutiveFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        "checkout-submit",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("checkout: breaker=%s state %s -> %s", name, from, to)
		},
	}
	return &BreakerSubmitter{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*domain.Order](settings),
	}
}

func (b *BreakerSubmitter) Submit(ctx context.Context, in SubmitInput) (*domain.Order, error) {
	return b.cb.Execute(func() (*domain.Order, error) {
		return b.next.Submit(ctx, in)
	})
}

func (b *BreakerSubmitter) State() gobreaker.State {
	return b.cb.State()
}

// Open reports whether checkouts are currently being rejected without
// reaching the submitter. Exported as a metric.
func (b *BreakerSubmitter) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}
