package sqldb

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

type testStore struct {
	users       *UserRepository
	clients     *ClientRepository
	services    *ServiceRepository
	deployments *DeploymentRepository
}

// openTestDB opens a private in-memory database. The DSN leaves foreign keys
// to Open.
func openTestDB(t *testing.T, maxConns int) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(ctx, Config{Driver: DriverSQLite, DSN: dsn, MaxOpenConns: maxConns}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newTestStore(t *testing.T) testStore {
	db := openTestDB(t, 1)
	return testStore{
		users:       NewUserRepository(db),
		clients:     NewClientRepository(db),
		services:    NewServiceRepository(db),
		deployments: NewDeploymentRepository(db),
	}
}

func (s testStore) client(t *testing.T, name string) *domain.Client {
	t.Helper()
	now := time.Now().UTC()
	c, err := s.clients.Create(context.Background(), &domain.Client{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	return c
}

func (s testStore) service(t *testing.T, name string) *domain.Service {
	t.Helper()
	svc, err := s.services.Create(context.Background(), &domain.Service{
		Name: name, Vertical: domain.VerticalProtect, Description: "desc", Price: "$1",
	})
	require.NoError(t, err)
	return svc
}

func TestClientRepository_DuplicateName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	s.client(t, "Acme Corp")
	_, err := s.clients.Create(context.Background(), &domain.Client{ID: uuid.NewString(), Name: "Acme Corp"})
	require.ErrorIs(t, err, domain.ErrClientExists)
}

func TestClientRepository_FindByID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	acme := s.client(t, "Acme Corp")

	got, err := s.clients.FindByID(context.Background(), acme.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", got.Name)

	_, err = s.clients.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestServiceRepository_SequentialIDs(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	a := s.service(t, "Asset Mapper 360")
	b := s.service(t, "VulnScan Pro")
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)

	_, err := s.services.Create(context.Background(), &domain.Service{Name: "VulnScan Pro", Vertical: domain.VerticalIdentify, Description: "d", Price: "$1"})
	require.ErrorIs(t, err, domain.ErrServiceExists)

	list, err := s.services.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Asset Mapper 360", list[0].Name)

	_, err = s.services.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrServiceNotFound)
}

func TestDeploymentRepository_UniquePair(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.client(t, "Acme Corp")
	svc := s.service(t, "Sentinel Endpoint")

	d, err := s.deployments.Create(ctx, acme.ID, svc.ID, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, d.Client)
	require.NotNil(t, d.Service)
	require.Equal(t, "Acme Corp", d.Client.Name)
	require.Equal(t, "Sentinel Endpoint", d.Service.Name)

	_, err = s.deployments.Create(ctx, acme.ID, svc.ID, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrDeploymentExists)
	require.ErrorIs(t, err, domain.ErrConflict)

	list, err := s.deployments.List(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDeploymentRepository_ConcurrentInsertsOneWins(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	acme := s.client(t, "Acme Corp")
	svc := s.service(t, "Sentinel Endpoint")

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.deployments.Create(context.Background(), acme.ID, svc.ID, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, domain.ErrDeploymentExists)
	}
	require.Equal(t, 1, created)
}

func TestDeploymentRepository_DanglingReferences(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.client(t, "Acme Corp")
	svc := s.service(t, "Sentinel Endpoint")

	_, err := s.deployments.Create(ctx, "no-such-client", svc.ID, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = s.deployments.Create(ctx, acme.ID, 999, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrServiceNotFound)
}

func TestDeploymentRepository_ListOrderAndFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.client(t, "Acme Corp")
	globex := s.client(t, "Globex Inc")
	a := s.service(t, "A")
	b := s.service(t, "B")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.deployments.Create(ctx, acme.ID, a.ID, base)
	require.NoError(t, err)
	_, err = s.deployments.Create(ctx, acme.ID, b.ID, base.Add(time.Minute))
	require.NoError(t, err)
	_, err = s.deployments.Create(ctx, globex.ID, a.ID, base.Add(2*time.Minute))
	require.NoError(t, err)

	all, err := s.deployments.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, globex.ID, all[0].ClientID)
	require.Equal(t, b.ID, all[1].ServiceID)

	only, err := s.deployments.List(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, only, 2)
	for _, d := range only {
		require.Equal(t, acme.ID, d.ClientID)
	}
}

func TestDeploymentRepository_Delete(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.client(t, "Acme Corp")
	svc := s.service(t, "Sentinel Endpoint")

	_, err := s.deployments.Create(ctx, acme.ID, svc.ID, time.Now().UTC())
	require.NoError(t, err)

	n, err := s.deployments.Delete(ctx, acme.ID, svc.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = s.deployments.Delete(ctx, acme.ID, svc.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.client(t, "Acme Corp")

	created, err := s.users.Create(ctx, &domain.User{
		ID: uuid.NewString(), Email: "wile@acme.test", Name: "Wile", PasswordHash: "hash",
		Role: domain.RoleClient, ClientID: acme.ID,
	})
	require.NoError(t, err)

	byID, err := s.users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, acme.ID, byID.ClientID)
	require.Equal(t, "Acme Corp", byID.ClientName)

	byEmail, err := s.users.FindByEmail(ctx, "wile@acme.test")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	_, err = s.users.Create(ctx, &domain.User{ID: uuid.NewString(), Email: "wile@acme.test", PasswordHash: "h", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, domain.ErrUserExists)

	_, err = s.users.Create(ctx, &domain.User{ID: uuid.NewString(), Email: "x@y.test", PasswordHash: "h", Role: domain.RoleClient, ClientID: "ghost"})
	require.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = s.users.FindByEmail(ctx, "nobody@acme.test")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_AdminHasNoClient(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	created, err := s.users.Create(context.Background(), &domain.User{
		ID: uuid.NewString(), Email: "root@msp.test", PasswordHash: "h", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)

	got, err := s.users.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Empty(t, got.ClientID)
	require.Empty(t, got.ClientName)
}

func TestClientRepository_CountsAndCascade(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	acme := s.client(t, "Acme Corp")
	globex := s.client(t, "Globex Inc")
	a := s.service(t, "A")
	b := s.service(t, "B")

	for _, svcID := range []int64{a.ID, b.ID} {
		_, err := s.deployments.Create(ctx, acme.ID, svcID, time.Now().UTC())
		require.NoError(t, err)
	}
	_, err := s.deployments.Create(ctx, globex.ID, a.ID, time.Now().UTC())
	require.NoError(t, err)
	_, err = s.users.Create(ctx, &domain.User{ID: uuid.NewString(), Email: "u@acme.test", PasswordHash: "h", Role: domain.RoleClient, ClientID: acme.ID})
	require.NoError(t, err)

	list, err := s.clients.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Acme Corp", list[0].Name)
	require.Equal(t, int64(2), list[0].DeploymentCount)
	require.Equal(t, int64(1), list[0].UserCount)
	require.Equal(t, int64(1), list[1].DeploymentCount)
	require.Equal(t, int64(0), list[1].UserCount)

	require.NoError(t, s.clients.Delete(ctx, acme.ID))

	remaining, err := s.deployments.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, globex.ID, remaining[0].ClientID)

	_, err = s.users.FindByEmail(ctx, "u@acme.test")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	require.ErrorIs(t, s.clients.Delete(ctx, acme.ID), domain.ErrClientNotFound)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"msp.db", "msp.db?_foreign_keys=on"},
		{"file:msp.db?cache=shared", "file:msp.db?cache=shared&_foreign_keys=on"},
		{"file:msp.db?_foreign_keys=off", "file:msp.db?_foreign_keys=off"},
		{"file:msp.db?_fk=1", "file:msp.db?_fk=1"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sqliteDSN(tt.in), tt.in)
	}
}

func TestOpen_SQLiteEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	t.Parallel()
	db := openTestDB(t, 4)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	conns := make([]interface{ Close() error }, 0, 3)
	for i := 0; i < 3; i++ {
		conn, err := sqlDB.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)

		var on int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
		require.Equal(t, 1, on, "connection %d", i)
	}
	for _, c := range conns {
		require.NoError(t, c.Close())
	}

	s := testStore{clients: NewClientRepository(db), services: NewServiceRepository(db), deployments: NewDeploymentRepository(db)}
	svc := s.service(t, "Sentinel Endpoint")
	_, err = s.deployments.Create(ctx, "no-such-client", svc.ID, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}
