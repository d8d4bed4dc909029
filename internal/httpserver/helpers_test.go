package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	catalogsvc "storefront/internal/service/catalog"
	"storefront/internal/session"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

var testProducts = []domain.Product{
	{ID: "p1", Name: "Coffee Mug", Description: "Ceramic", Price: decimal.RequireFromString("12.99"), Category: "home", Rating: 4.8},
	{ID: "p2", Name: "Headphones", Description: "Wireless", Price: decimal.RequireFromString("199.99"), Category: "electronics", Rating: 4.5},
	{ID: "p3", Name: "Desk Lamp", Description: "LED", Price: decimal.RequireFromString("45.50"), Category: "home", Rating: 4.2},
}

type stubCatalog struct{}

func (stubCatalog) Browse(q catalog.Query) catalogsvc.Listing {
	q = q.Normalize()
	products := catalog.Apply(testProducts, q)
	return catalogsvc.Listing{Products: products, Count: len(products), Search: q.Search, Category: q.Category, Sort: q.Sort}
}

func (stubCatalog) Get(id string) (domain.Product, error) {
	for _, p := range testProducts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

type stubAuth struct {
	user      *domain.User
	loginErr  error
	signErr   error
	revoked   []string
	validTok  string
	signedUps int
}

func (s *stubAuth) Signup(_ context.Context, in authsvc.SignupInput) (*domain.User, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	s.signedUps++
	return s.user, nil
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, s.validTok, nil
}

func (s *stubAuth) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	if token != s.validTok {
		return nil, authsvc.ErrInvalidToken
	}
	for _, r := range s.revoked {
		if r == token {
			return nil, authsvc.ErrInvalidToken
		}
	}
	return s.user, nil
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubAuth) AccessTTLSeconds() int {
	return 3600
}

type stubOrders struct {
	orders []domain.Order
	err    error
}

func (s *stubOrders) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

type stubSubmitter struct {
	err   error
	calls int
}

func (s *stubSubmitter) Submit(_ context.Context, in checkout.SubmitInput) (*domain.Order, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{
		ID:        "order-1",
		UserID:    in.UserID,
		Lines:     in.Lines,
		Total:     in.Total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

type testEnv struct {
	router    *gin.Engine
	auth      *stubAuth
	orders    *stubOrders
	submitter *stubSubmitter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

func newTestEnvWith(t *testing.T, tweak func(*Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		auth: &stubAuth{
			user:     &domain.User{ID: "user-1", Email: "ann@example.com", Name: "Ann"},
			validTok: "tok-1",
		},
		orders:    &stubOrders{},
		submitter: &stubSubmitter{},
	}
	deps := Deps{
		Catalog:  stubCatalog{},
		Auth:     env.auth,
		Orders:   env.orders,
		Checkout: checkout.New(env.submitter, logDiscard()),
		Sessions: session.NewRegistry(nil, time.Hour, logDiscard()),
	}
	if tweak != nil {
		tweak(&deps)
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

type request struct {
	method string
	path   string
	body   string
	sid    string
	token  string
}

func (e *testEnv) do(r request) *httptest.ResponseRecorder {
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.sid != "" {
		req.Header.Set(sessionHeader, r.sid)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// newSession opens a session and returns its ID.
func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	rec := e.do(request{method: http.MethodGet, path: "/session"})
	sid := rec.Header().Get(sessionHeader)
	if sid == "" {
		t.Fatalf("expected %s header", sessionHeader)
	}
	return sid
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, rec.Code, rec.Body.String())
	}
}

var errBoom = errors.New("boom")
