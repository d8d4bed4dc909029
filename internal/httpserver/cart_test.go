package httpserver

import (
	"net/http"
	"testing"
)

func TestCart_AddUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	rec := env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1","quantity":2}`, sid: sid})
	expectStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	if body["itemCount"].(float64) != 2 || body["empty"].(bool) {
		t.Fatalf("unexpected cart: %v", body)
	}
	summary := body["summary"].(map[string]any)
	if summary["subtotal"] != "25.98" || summary["tax"] != "2.08" || summary["shipping"] != "9.99" || summary["total"] != "38.05" {
		t.Fatalf("unexpected summary: %v", summary)
	}
	if summary["freeShipping"].(bool) {
		t.Fatalf("expected shipping to be charged")
	}

	// Adding the same product merges into one line.
	rec = env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1"}`, sid: sid})
	body = decodeBody(t, rec)
	items := body["items"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["quantity"].(float64) != 3 {
		t.Fatalf("expected merged line with quantity 3, got %v", items)
	}

	rec = env.do(request{method: http.MethodPatch, path: "/cart/items/p1", body: `{"quantity":10}`, sid: sid})
	body = decodeBody(t, rec)
	summary = body["summary"].(map[string]any)
	if summary["subtotal"] != "129.9" || summary["shipping"] != "0" || !summary["freeShipping"].(bool) {
		t.Fatalf("expected free shipping over 100, got %v", summary)
	}

	rec = env.do(request{method: http.MethodPatch, path: "/cart/items/p1", body: `{"quantity":0}`, sid: sid})
	body = decodeBody(t, rec)
	if !body["empty"].(bool) {
		t.Fatalf("quantity 0 should remove the line: %v", body)
	}
}

func TestCart_UnknownIDsAreNoops(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1","quantity":1}`, sid: sid})

	expectStatus(t, env.do(request{method: http.MethodPatch, path: "/cart/items/zzz", body: `{"quantity":4}`, sid: sid}), http.StatusOK)
	rec := env.do(request{method: http.MethodDelete, path: "/cart/items/zzz", sid: sid})
	expectStatus(t, rec, http.StatusOK)
	if decodeBody(t, rec)["itemCount"].(float64) != 1 {
		t.Fatalf("cart should be unchanged")
	}
}

func TestCart_Validation(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	expectStatus(t, env.do(request{method: http.MethodPost, path: "/cart/items", body: `{}`, sid: sid}), http.StatusBadRequest)
	expectStatus(t, env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"nope"}`, sid: sid}), http.StatusNotFound)
	expectStatus(t, env.do(request{method: http.MethodPatch, path: "/cart/items/p1", body: `{}`, sid: sid}), http.StatusBadRequest)
}

func TestCart_RejectsOversizedQuantity(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	huge := `{"productId":"p1","quantity":9223372036854775807}`
	expectStatus(t, env.do(request{method: http.MethodPost, path: "/cart/items", body: huge, sid: sid}), http.StatusBadRequest)
	expectStatus(t, env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1","quantity":1000}`, sid: sid}), http.StatusBadRequest)

	expectStatus(t, env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1","quantity":999}`, sid: sid}), http.StatusOK)
	rec := env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1","quantity":999}`, sid: sid})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["itemCount"].(float64); got != 999 {
		t.Fatalf("expected line capped at 999, got %v", got)
	}

	expectStatus(t, env.do(request{method: http.MethodPatch, path: "/cart/items/p1", body: `{"quantity":1000}`, sid: sid}), http.StatusBadRequest)
}

func TestCart_ClearAndIsolation(t *testing.T) {
	env := newTestEnv(t)
	a := env.newSession(t)
	b := env.newSession(t)

	env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p2","quantity":1}`, sid: a})
	if decodeBody(t, env.do(request{method: http.MethodGet, path: "/cart", sid: b}))["itemCount"].(float64) != 0 {
		t.Fatalf("sessions must not share carts")
	}

	rec := env.do(request{method: http.MethodDelete, path: "/cart", sid: a})
	expectStatus(t, rec, http.StatusOK)
	if !decodeBody(t, rec)["empty"].(bool) {
		t.Fatalf("expected cleared cart")
	}
}
