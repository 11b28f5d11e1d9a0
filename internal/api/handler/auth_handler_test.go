package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@acme.test" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "jwt-token", &domain.User{ID: "u1", Email: email, Role: domain.RoleClient, ClientID: "acme"}, nil
		},
	}
	h := NewAuthHandler(stub, testMetrics)
	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@acme.test","password":"secret"}`, nil)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "jwt-token" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["role"] != "CLIENT" || user["clientId"] != "acme" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, ok := user["passwordHash"]; ok {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testMetrics)
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@acme.test"}`, nil)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, testMetrics)
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"email":"a@b.test","password":"nope"}`, nil)

	if err := h.Login(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthHandler_Logout_PassesToken(t *testing.T) {
	var got string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			got = token
			return nil
		},
	}
	h := NewAuthHandler(stub, testMetrics)
	c, rec := newContext(http.MethodPost, "/api/auth/logout", "", domain.Admin{ID: "root"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "tok" {
		t.Fatalf("expected token from context, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, caller domain.Caller) (*domain.User, error) {
			return &domain.User{ID: caller.UserID(), Role: domain.RoleClient, ClientID: "acme", ClientName: "Acme Corp"}, nil
		},
	}
	h := NewAuthHandler(stub, testMetrics)
	c, rec := newContext(http.MethodGet, "/api/auth/me", "", domain.TenantMember{ID: "u1", TenantID: "acme"})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["clientName"] != "Acme Corp" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me_NoCaller(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testMetrics)
	c, _ := newContext(http.MethodGet, "/api/auth/me", "", nil)

	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthHandler_CreateUser(t *testing.T) {
	stub := &stubAuthService{
		createUserFn: func(ctx context.Context, caller domain.Caller, input ports.CreateUserInput) (*domain.User, error) {
			if input.Role != domain.RoleClient || input.ClientID != "acme" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u2", Email: input.Email, Role: input.Role, ClientID: input.ClientID}, nil
		},
	}
	h := NewAuthHandler(stub, testMetrics)
	body := `{"email":"bob@acme.test","password":"pw","role":"CLIENT","clientId":"acme"}`
	c, rec := newContext(http.MethodPost, "/api/users", body, domain.Admin{ID: "root"})

	if err := h.CreateUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_CreateUser_UnknownRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testMetrics)
	body := `{"email":"bob@acme.test","password":"pw","role":"ROOT"}`
	c, _ := newContext(http.MethodPost, "/api/users", body, domain.Admin{ID: "root"})

	if err := h.CreateUser(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
