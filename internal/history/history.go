// Package history derives the order-history view for the current session.
package history

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// State tells the client which of the three history screens to render.
type State string

const (
	StateSignInRequired State = "sign_in_required"
	StateEmpty          State = "empty"
	StateOrders         State = "orders"
)

// Badge is the display tone of a status.
type Badge string

const (
	BadgeYellow  Badge = "yellow"
	BadgeBlue    Badge = "blue"
	BadgeIndigo  Badge = "indigo"
	BadgeEmerald Badge = "emerald"
	BadgeGray    Badge = "gray"
)

type View struct {
	State  State       `json:"state"`
	Orders []OrderView `json:"orders"`
}

type OrderView struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	Badge       Badge           `json:"badge"`
	CreatedAt   time.Time       `json:"createdAt"`
	Total       decimal.Decimal `json:"total"`
	Lines       []LineView      `json:"items"`
}

type LineView struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Build renders the history for user. Without a user the view asks the
// client to sign in, whatever orders are held.
func Build(user *domain.User, orders []domain.Order) View {
	if user == nil {
		return View{State: StateSignInRequired, Orders: []OrderView{}}
	}
	if len(orders) == 0 {
		return View{State: StateEmpty, Orders: []OrderView{}}
	}
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, BuildOrder(o))
	}
	return View{State: StateOrders, Orders: out}
}

// BuildOrder renders a single order, as shown in the history list.
func BuildOrder(o domain.Order) OrderView {
	lines := make([]LineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineView{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Image:     l.Product.Image,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
			Subtotal:  l.Subtotal(),
		})
	}
	return OrderView{
		ID:          o.ID,
		Status:      string(o.Status),
		StatusLabel: StatusLabel(o.Status),
		Badge:       BadgeFor(o.Status),
		CreatedAt:   o.CreatedAt,
		// Stored total, never re-derived from the lines.
		Total: o.Total,
		Lines: lines,
	}
}

// StatusLabel upper-cases the first character of the status.
func StatusLabel(status domain.OrderStatus) string {
	s := string(status)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// BadgeFor maps a status to its tone. Unknown statuses are gray.
func BadgeFor(status domain.OrderStatus) Badge {
	switch status {
	case domain.OrderStatusPending:
		return BadgeYellow
	case domain.OrderStatusProcessing:
		return BadgeBlue
	case domain.OrderStatusShipped:
		return BadgeIndigo
	case domain.OrderStatusDelivered:
		return BadgeEmerald
	default:
		return BadgeGray
	}
}
