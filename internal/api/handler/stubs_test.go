package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kfcybersecurity/msp-portal/internal/api/metrics"
	"github.com/kfcybersecurity/msp-portal/internal/api/middleware"
	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

var testMetrics = metrics.New(prometheus.NewRegistry())

type stubAuthService struct {
	loginFn      func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn     func(ctx context.Context, token string) error
	meFn         func(ctx context.Context, caller domain.Caller) (*domain.User, error)
	createUserFn func(ctx context.Context, caller domain.Caller, input ports.CreateUserInput) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Me(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	return s.meFn(ctx, caller)
}

func (s *stubAuthService) CreateUser(ctx context.Context, caller domain.Caller, input ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, caller, input)
}

type stubRegistry struct {
	createClientFn  func(ctx context.Context, caller domain.Caller, name, description string) (*domain.Client, error)
	listClientsFn   func(ctx context.Context, caller domain.Caller) ([]domain.ClientSummary, error)
	deleteClientFn  func(ctx context.Context, caller domain.Caller, id string) error
	createServiceFn func(ctx context.Context, caller domain.Caller, input ports.CreateServiceInput) (*domain.Service, error)
	listServicesFn  func(ctx context.Context, caller domain.Caller) ([]domain.Service, error)
}

func (s *stubRegistry) CreateClient(ctx context.Context, caller domain.Caller, name, description string) (*domain.Client, error) {
	return s.createClientFn(ctx, caller, name, description)
}

func (s *stubRegistry) ListClients(ctx context.Context, caller domain.Caller) ([]domain.ClientSummary, error) {
	return s.listClientsFn(ctx, caller)
}

func (s *stubRegistry) DeleteClient(ctx context.Context, caller domain.Caller, id string) error {
	return s.deleteClientFn(ctx, caller, id)
}

func (s *stubRegistry) CreateService(ctx context.Context, caller domain.Caller, input ports.CreateServiceInput) (*domain.Service, error) {
	return s.createServiceFn(ctx, caller, input)
}

func (s *stubRegistry) ListServices(ctx context.Context, caller domain.Caller) ([]domain.Service, error) {
	return s.listServicesFn(ctx, caller)
}

type stubDeployments struct {
	listFn   func(ctx context.Context, caller domain.Caller, filterClientID string) ([]domain.Deployment, error)
	deployFn func(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) (*domain.Deployment, error)
	removeFn func(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) error
}

func (s *stubDeployments) ListDeployments(ctx context.Context, caller domain.Caller, filterClientID string) ([]domain.Deployment, error) {
	return s.listFn(ctx, caller, filterClientID)
}

func (s *stubDeployments) Deploy(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) (*domain.Deployment, error) {
	return s.deployFn(ctx, caller, clientID, serviceID)
}

func (s *stubDeployments) Remove(ctx context.Context, caller domain.Caller, clientID string, serviceID int64) error {
	return s.removeFn(ctx, caller, clientID, serviceID)
}

// newContext builds an echo context for target with an optional JSON body
// and, when caller is non-nil, the values the Auth middleware would set.
func newContext(method, target, body string, caller domain.Caller) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(middleware.CallerKey, caller)
		c.Set(middleware.TokenKey, "tok")
	}
	return c, rec
}
