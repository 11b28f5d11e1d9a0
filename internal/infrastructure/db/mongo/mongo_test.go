package mongo

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
)

// newTestDatabase connects to MSP_TEST_MONGO_URI and returns a fresh database
// that is dropped when the test ends. The test is skipped without the variable.
func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MSP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MSP_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	name := "msp_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoStore_DeploymentsCountsAndCascade(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	clients := NewClientRepository(db)
	services := NewServiceRepository(db)
	deployments := NewDeploymentRepository(db)
	users := NewUserRepository(db)
	now := time.Now().UTC().Truncate(time.Millisecond)

	newClient := func(name string) *domain.Client {
		c, err := clients.Create(ctx, &domain.Client{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)
		return c
	}
	acme := newClient("Acme Corp")
	globex := newClient("Globex Inc")
	_, err := clients.Create(ctx, &domain.Client{ID: uuid.NewString(), Name: "Acme Corp"})
	require.ErrorIs(t, err, domain.ErrClientExists)

	var svcIDs []int64
	for _, name := range []string{"Asset Mapper 360", "Sentinel Endpoint"} {
		svc, err := services.Create(ctx, &domain.Service{Name: name, Vertical: domain.VerticalProtect, CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)
		svcIDs = append(svcIDs, svc.ID)
	}
	assert.Equal(t, []int64{1, 2}, svcIDs)

	d, err := deployments.Create(ctx, acme.ID, svcIDs[1], now)
	require.NoError(t, err)
	assert.Equal(t, "Sentinel Endpoint", d.Service.Name)
	_, err = deployments.Create(ctx, acme.ID, svcIDs[1], now)
	require.ErrorIs(t, err, domain.ErrDeploymentExists)
	_, err = deployments.Create(ctx, acme.ID, 99, now)
	require.ErrorIs(t, err, domain.ErrServiceNotFound)

	_, err = deployments.Create(ctx, acme.ID, svcIDs[0], now.Add(time.Second))
	require.NoError(t, err)
	_, err = deployments.Create(ctx, globex.ID, svcIDs[0], now)
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{ID: uuid.NewString(), Email: "it@acme.test", Role: domain.RoleClient, ClientID: acme.ID, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	listed, err := deployments.List(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, svcIDs[0], listed[0].ServiceID, "newest first")
	assert.Equal(t, "Acme Corp", listed[0].Client.Name)

	summaries, err := clients.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Acme Corp", summaries[0].Name)
	assert.Equal(t, int64(2), summaries[0].DeploymentCount)
	assert.Equal(t, int64(1), summaries[0].UserCount)
	assert.Equal(t, int64(1), summaries[1].DeploymentCount)

	require.NoError(t, clients.Delete(ctx, acme.ID))
	require.ErrorIs(t, clients.Delete(ctx, acme.ID), domain.ErrClientNotFound)

	all, err := deployments.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, globex.ID, all[0].ClientID)
	_, err = users.FindByEmail(ctx, "it@acme.test")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
