package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type recordingCreator struct {
	userID string
	lines  []domain.CartLine
	total  decimal.Decimal
}

func (r *recordingCreator) Create(_ context.Context, userID string, lines []domain.CartLine, total decimal.Decimal) (*domain.Order, error) {
	r.userID, r.lines, r.total = userID, lines, total
	return &domain.Order{ID: "o-1", UserID: userID, Lines: lines, Total: total, Status: domain.OrderStatusPending}, nil
}

func TestRepositorySubmitterForwardsInput(t *testing.T) {
	rec := &recordingCreator{}
	lines := []domain.CartLine{{Product: domain.Product{ID: "p1", Price: decimal.NewFromInt(5)}, Quantity: 2}}

	order, err := NewRepositorySubmitter(rec).Submit(context.Background(), SubmitInput{
		UserID: "u-1",
		Lines:  lines,
		Total:  decimal.RequireFromString("20.79"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.ID != "o-1" || rec.userID != "u-1" || len(rec.lines) != 1 || !rec.total.Equal(decimal.RequireFromString("20.79")) {
		t.Fatalf("input not forwarded: order=%+v rec=%+v", order, rec)
	}
}
