// File: internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iyunix/go-chatpal/internal/auth"
)

func TestJWTMiddleware_MissingCookie(t *testing.T) {
	secret := []byte("secret")
	handler := NewJWTMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/chats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestJWTMiddleware_InvalidTokenClearsCookie(t *testing.T) {
	secret := []byte("secret")
	handler := NewJWTMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/chats", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("invalid auth_token cookie was not cleared")
	}
}

func TestJWTMiddleware_ValidTokenSetsUserID(t *testing.T) {
	secret := []byte("secret")
	token, err := auth.GenerateJWT(7, secret)
	if err != nil {
		t.Fatalf("GenerateJWT error = %v", err)
	}

	var gotID uint
	var gotOK bool
	handler := NewJWTMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/chats", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if !gotOK || gotID != 7 {
		t.Fatalf("UserIDFromContext = %d, %v; want 7, true", gotID, gotOK)
	}
}
