//go:build integration

package mongo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
)

func setupOrdersMongo(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, disconnect, err := platformmongo.Connect(ctx, uri, "storefront_test")
	require.NoError(t, err)

	repo, err := NewRepository(ctx, db)
	require.NoError(t, err)

	return repo, func() {
		_ = disconnect(ctx)
		_ = container.Terminate(ctx)
	}
}

func sampleOrder(t *testing.T, id, tx string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, domain.Contact{
		Email: "Buyer@Example.com", FirstName: "Ada", LastName: "L", Address: "1 Way",
		City: "Lagos", State: "LA", Zip: "100001", Phone: "555", Country: "NG",
	}, []domain.LineItem{{ID: "p1-red-m", Name: "Tee", Price: 20, Quantity: 2}}, 45, 5, 0, tx)
	require.NoError(t, err)
	return order
}

func TestRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo, cleanup := setupOrdersMongo(t)
	defer cleanup()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := repo.Create(ctx, sampleOrder(t, fmt.Sprintf("o-%d", i), fmt.Sprintf("T%d", i)))
		require.NoError(t, err)
	}
	byTx, err := repo.FindByTransactionID(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, "o-2", byTx.Entity.ID)

	_, err = repo.Create(ctx, sampleOrder(t, "o-9", "T1"))
	assert.ErrorIs(t, err, ports.ErrDuplicateTransaction)

	change, err := domain.NewStatusChange("cancelled", "Customer request")
	require.NoError(t, err)
	updated, err := repo.UpdateStatus(ctx, "o-2", change)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Entity.Status)
	assert.Equal(t, "Customer request", updated.Entity.CancellationReason)

	reopen, err := domain.NewStatusChange("processing", "")
	require.NoError(t, err)
	updated, err = repo.UpdateStatus(ctx, "o-2", reopen)
	require.NoError(t, err)
	assert.Empty(t, updated.Entity.CancellationReason)

	_, err = repo.UpdateStatus(ctx, "missing", reopen)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	tracked, err := repo.FindForTracking(ctx, "o-1", "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "o-1", tracked.Entity.ID)

	pending, err := repo.CountByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
}
