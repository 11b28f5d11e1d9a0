package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub store. It enforces the same uniqueness and cascade rules the
// real stores do, so service tests can exercise conflicts end to end.
// ---------------------------------------------------------------------------

type pairKey struct {
	clientID  string
	serviceID int64
}

type stubStore struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	clients     map[string]*domain.Client
	services    map[int64]*domain.Service
	deployments map[pairKey]*domain.Deployment
	sessions    map[string]domain.Session
	nextService int64
	nextDeploy  int64

	createErr error // if set, every Create returns this error
}

func newStubStore() *stubStore {
	return &stubStore{
		users:       make(map[string]*domain.User),
		clients:     make(map[string]*domain.Client),
		services:    make(map[int64]*domain.Service),
		deployments: make(map[pairKey]*domain.Deployment),
		sessions:    make(map[string]domain.Session),
	}
}

var discardLogger = zerolog.Nop()

// --- users ---

type stubUsers struct{ *stubStore }

func (s stubUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	if u.ClientID != "" {
		if _, ok := s.clients[u.ClientID]; !ok {
			return nil, domain.ErrClientNotFound
		}
	}
	clone := *u
	s.users[u.ID] = &clone
	out := clone
	return &out, nil
}

func (s stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	if c, ok := s.clients[u.ClientID]; ok {
		clone.ClientName = c.Name
	}
	return &clone, nil
}

// --- clients ---

type stubClients struct{ *stubStore }

func (s stubClients) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.clients {
		if existing.Name == c.Name {
			return nil, domain.ErrClientExists
		}
	}
	clone := *c
	s.clients[c.ID] = &clone
	out := clone
	return &out, nil
}

func (s stubClients) FindByID(_ context.Context, id string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (s stubClients) ListWithCounts(_ context.Context) ([]domain.ClientSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ClientSummary, 0, len(s.clients))
	for _, c := range s.clients {
		sum := domain.ClientSummary{Client: *c}
		for k := range s.deployments {
			if k.clientID == c.ID {
				sum.DeploymentCount++
			}
		}
		for _, u := range s.users {
			if u.ClientID == c.ID {
				sum.UserCount++
			}
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s stubClients) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(s.clients, id)
	for k := range s.deployments {
		if k.clientID == id {
			delete(s.deployments, k)
		}
	}
	for uid, u := range s.users {
		if u.ClientID == id {
			delete(s.users, uid)
		}
	}
	return nil
}

// --- services ---

type stubServices struct{ *stubStore }

func (s stubServices) Create(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.services {
		if existing.Name == svc.Name {
			return nil, domain.ErrServiceExists
		}
	}
	s.nextService++
	clone := *svc
	clone.ID = s.nextService
	s.services[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s stubServices) FindByID(_ context.Context, id int64) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	clone := *svc
	return &clone, nil
}

func (s stubServices) List(_ context.Context) ([]domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- deployments ---

type stubDeployments struct{ *stubStore }

// Create mirrors a unique index: the existence check and the insert happen
// under one lock.
func (s stubDeployments) Create(_ context.Context, clientID string, serviceID int64, at time.Time) (*domain.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	key := pairKey{clientID, serviceID}
	if _, exists := s.deployments[key]; exists {
		return nil, domain.ErrDeploymentExists
	}
	c, ok := s.clients[clientID]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	svc, ok := s.services[serviceID]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	s.nextDeploy++
	d := &domain.Deployment{ID: s.nextDeploy, ClientID: clientID, ServiceID: serviceID, CreatedAt: at, UpdatedAt: at}
	s.deployments[key] = d
	return s.joined(d, c, svc), nil
}

func (s stubDeployments) List(_ context.Context, clientID string) ([]domain.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Deployment
	for k, d := range s.deployments {
		if clientID != "" && k.clientID != clientID {
			continue
		}
		out = append(out, *s.joined(d, s.clients[k.clientID], s.services[k.serviceID]))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s stubDeployments) Delete(_ context.Context, clientID string, serviceID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{clientID, serviceID}
	if _, ok := s.deployments[key]; !ok {
		return 0, nil
	}
	delete(s.deployments, key)
	return 1, nil
}

func (s *stubStore) joined(d *domain.Deployment, c *domain.Client, svc *domain.Service) *domain.Deployment {
	clone := *d
	if c != nil {
		cc := *c
		clone.Client = &cc
	}
	if svc != nil {
		sc := *svc
		clone.Service = &sc
	}
	return &clone
}

// --- sessions ---

type stubSessions struct {
	*stubStore
	getErr error
}

func (s stubSessions) Save(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s stubSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s stubSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testAdmin = domain.Admin{ID: "admin-1"}

func mustClient(t *testing.T, st *stubStore, name string) *domain.Client {
	svc := NewRegistryService(stubClients{st}, stubServices{st}, discardLogger)
	c, err := svc.CreateClient(context.Background(), testAdmin, name, "")
	if err != nil {
		t.Fatalf("create client %q: %v", name, err)
	}
	return c
}

func mustService(t *testing.T, st *stubStore, name string) *domain.Service {
	svc, err := stubServices{st}.Create(context.Background(), &domain.Service{
		Name: name, Vertical: domain.VerticalProtect, Description: "d", Price: "$1",
	})
	if err != nil {
		t.Fatalf("create service %q: %v", name, err)
	}
	return svc
}
