package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FurkanKirci/BeautySalon/internal/auth"
)

func testManager() *auth.Manager {
	return &auth.Manager{
		Secret: []byte("test-secret"),
		TTL:    time.Minute,
		Issuer: "beautysalon-api",
	}
}

func TestAuthInjectsClaims(t *testing.T) {
	manager := testManager()
	token, err := manager.NewToken("u1", "admin@salon.test", "Ayşe", "Yılmaz")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var claims *auth.Claims
	handler := Auth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if claims == nil {
		t.Fatal("expected claims in handler context")
	}
	if claims.UserID != "u1" || claims.Email != "admin@salon.test" {
		t.Errorf("claims = %+v, want user u1", claims)
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	manager := testManager()
	token, err := manager.NewToken("u2", "owner@salon.test", "Fatma", "Demir")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var claims *auth.Claims
	handler := Auth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if claims == nil || claims.UserID != "u2" {
		t.Fatalf("claims = %+v, want user u2", claims)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testManager())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsForgedToken(t *testing.T) {
	manager := testManager()
	other := &auth.Manager{Secret: []byte("other-secret"), TTL: time.Minute, Issuer: manager.Issuer}
	token, err := other.NewToken("u3", "x@salon.test", "A", "B")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler := Auth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a forged token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
