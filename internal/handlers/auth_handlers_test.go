// File: internal/handlers/auth_handlers_test.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iyunix/go-chatpal/internal/domain"
	"github.com/iyunix/go-chatpal/internal/services"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	user.ID = r.nextID
	r.nextID++
	r.users[user.Username] = user
	return user, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func newAuthHandler() *AuthHandler {
	service := services.NewUserService(newStubUserRepo(), "test-secret", nil)
	return NewAuthHandler(service, false)
}

func TestRegister_InvalidUsername(t *testing.T) {
	h := newAuthHandler()

	body := strings.NewReader(`{"username":"a!","password":"secure-password"}`)
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/register", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	h := newAuthHandler()

	body := strings.NewReader(`{"username":"alice","password":"short"}`)
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/register", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRegister_DuplicateConflicts(t *testing.T) {
	h := newAuthHandler()

	first := httptest.NewRecorder()
	h.Register(first, httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"alice","password":"secure-password"}`)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first register status = %d; want %d", first.Code, http.StatusCreated)
	}

	second := httptest.NewRecorder()
	h.Register(second, httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"alice","password":"other-password"}`)))
	if second.Code != http.StatusConflict {
		t.Fatalf("second register status = %d; want %d", second.Code, http.StatusConflict)
	}
}

func TestLogin_SetsAuthCookie(t *testing.T) {
	h := newAuthHandler()

	reg := httptest.NewRecorder()
	h.Register(reg, httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"alice","password":"secure-password"}`)))
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d; want %d", reg.Code, http.StatusCreated)
	}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":"alice","password":"secure-password"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d; want %d", rec.Code, http.StatusOK)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("auth_token cookie not set")
	}
	if !cookie.HttpOnly {
		t.Fatal("auth_token cookie must be HttpOnly")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newAuthHandler()

	reg := httptest.NewRecorder()
	h.Register(reg, httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"alice","password":"secure-password"}`)))

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":"alice","password":"wrong-password"}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newAuthHandler()

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d; want %d", rec.Code, http.StatusOK)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("auth_token cookie not cleared")
	}
}
