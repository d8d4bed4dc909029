package store

import (
	"slices"
	"sync"

	"storefront/internal/domain"
)

// AccountState is the snapshot handed to account observers.
type AccountState struct {
	User   *domain.User
	Orders []domain.Order
}

// Account holds the signed-in user, if any, and that user's order history.
// Logging out hides the history without discarding it.
type Account struct {
	mu     sync.Mutex
	user   *domain.User
	orders []domain.Order
	// owner is the ID of the user the orders belong to.
	owner string
	subs  listeners[AccountState]
}

func NewAccount() *Account {
	return &Account{}
}

// Login records the result of a successful authentication. Orders kept from
// a different user are dropped.
func (a *Account) Login(user domain.User) {
	a.mu.Lock()
	u := user
	a.user = &u
	if a.owner != user.ID {
		a.orders = nil
		a.owner = user.ID
	}
	state := a.stateLocked()
	a.mu.Unlock()
	a.subs.notify(state)
}

// SignIn sets the user and their order history in one change, so observers
// never see the user paired with someone else's orders.
func (a *Account) SignIn(user domain.User, orders []domain.Order) {
	a.mu.Lock()
	u := user
	a.user = &u
	a.owner = user.ID
	a.orders = slices.Clone(orders)
	state := a.stateLocked()
	a.mu.Unlock()
	a.subs.notify(state)
}

// Logout clears the current user. Orders are kept.
func (a *Account) Logout() {
	a.mu.Lock()
	a.user = nil
	state := a.stateLocked()
	a.mu.Unlock()
	a.subs.notify(state)
}

// User returns a copy of the current user.
func (a *Account) User() (domain.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return domain.User{}, false
	}
	return *a.user, true
}

// Orders returns the order history, newest first.
func (a *Account) Orders() []domain.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.orders)
}

// SetOrders replaces the history, typically after loading it on login.
func (a *Account) SetOrders(orders []domain.Order) {
	a.mu.Lock()
	a.orders = slices.Clone(orders)
	state := a.stateLocked()
	a.mu.Unlock()
	a.subs.notify(state)
}

// AddOrder puts a newly placed order at the head of the history.
func (a *Account) AddOrder(order domain.Order) {
	a.mu.Lock()
	a.orders = slices.Insert(a.orders, 0, order)
	state := a.stateLocked()
	a.mu.Unlock()
	a.subs.notify(state)
}

// State returns a consistent snapshot of user and orders.
func (a *Account) State() AccountState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

func (a *Account) Subscribe(fn func(AccountState)) func() {
	return a.subs.add(fn)
}

func (a *Account) stateLocked() AccountState {
	var u *domain.User
	if a.user != nil {
		clone := *a.user
		u = &clone
	}
	return AccountState{User: u, Orders: slices.Clone(a.orders)}
}
