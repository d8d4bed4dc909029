package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
)

func TestSignup_CreatedAndSignedIn(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	rec := env.do(request{method: http.MethodPost, path: "/auth/signup", body: `{"email":"ann@example.com","password":"abcdefg1","name":"Ann"}`, sid: sid})
	expectStatus(t, rec, http.StatusCreated)
	if !strings.Contains(rec.Body.String(), `"accessToken":"tok-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if env.auth.signedUps != 1 {
		t.Fatalf("expected signup to be called once")
	}

	body := decodeBody(t, env.do(request{method: http.MethodGet, path: "/session", sid: sid}))
	user, ok := body["user"].(map[string]any)
	if !ok || user["name"] != "Ann" {
		t.Fatalf("expected signed-in user, got %v", body)
	}
}

func TestSignup_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.auth.signErr = domain.ErrAlreadyExists
	rec := env.do(request{method: http.MethodPost, path: "/auth/signup", body: `{"email":"ann@example.com","password":"abcdefg1"}`})
	expectStatus(t, rec, http.StatusConflict)
}

func TestSignup_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	expectStatus(t, env.do(request{method: http.MethodPost, path: "/auth/signup", body: `{"email":"ann@example.com"}`}), http.StatusBadRequest)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = authsvc.ErrInvalidCredentials
	rec := env.do(request{method: http.MethodPost, path: "/auth/login", body: `{"email":"ann@example.com","password":"wrong"}`})
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestLogin_ServiceError(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = errBoom
	rec := env.do(request{method: http.MethodPost, path: "/auth/login", body: `{"email":"ann@example.com","password":"abcdefg1"}`})
	expectStatus(t, rec, http.StatusInternalServerError)
}

func TestLogout_KeepsCartAndHidesHistory(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	expectStatus(t, env.do(request{method: http.MethodPost, path: "/auth/login", body: `{"email":"ann@example.com","password":"abcdefg1"}`, sid: sid}), http.StatusOK)
	env.do(request{method: http.MethodPost, path: "/cart/items", body: `{"productId":"p1"}`, sid: sid})

	expectStatus(t, env.do(request{method: http.MethodPost, path: "/auth/logout", sid: sid}), http.StatusNoContent)
	if len(env.auth.revoked) != 1 || env.auth.revoked[0] != "tok-1" {
		t.Fatalf("expected token to be revoked, got %v", env.auth.revoked)
	}

	body := decodeBody(t, env.do(request{method: http.MethodGet, path: "/session", sid: sid}))
	if body["user"] != nil || body["cartCount"].(float64) != 1 {
		t.Fatalf("expected signed-out session with cart kept, got %v", body)
	}
	if decodeBody(t, env.do(request{method: http.MethodGet, path: "/orders", sid: sid}))["state"] != "sign_in_required" {
		t.Fatalf("history should require sign in after logout")
	}

	// The revoked bearer no longer restores the user.
	body = decodeBody(t, env.do(request{method: http.MethodGet, path: "/session", sid: sid, token: "tok-1"}))
	if body["user"] != nil {
		t.Fatalf("revoked token must not sign the session in")
	}
}

func TestBearer_InvalidTokenStaysAnonymous(t *testing.T) {
	env := newTestEnv(t)
	body := decodeBody(t, env.do(request{method: http.MethodGet, path: "/session", token: "forged"}))
	if body["user"] != nil {
		t.Fatalf("expected anonymous session, got %v", body)
	}
}
