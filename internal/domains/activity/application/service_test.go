package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

func TestRecord_OrderCreated(t *testing.T) {
	repo := memory.NewRepository()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(repo, WithClock(func() time.Time { return fixed }), WithIDGenerator(func() string { return "act-1" }))

	record, err := svc.Record(context.Background(), types.OrderCreated("9f8e7d6c", 45, domain.Actor{UserID: "u1", Name: "Ada"}))
	require.NoError(t, err)
	require.Equal(t, domain.TypeOrderCreated, record.Type)
	require.Equal(t, "New order #9f8e", record.Description)
	require.Equal(t, "9f8e7d6c", record.Metadata["orderId"])
	require.Equal(t, 45.0, record.Metadata["amount"])
	require.Equal(t, fixed, record.CreatedAt)
	require.Len(t, repo.All(), 1)
}

func TestRecord_UnknownTypeIsValidationError(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)

	_, err := svc.Record(context.Background(), types.RecordInput{Type: "order_deleted"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidType)
	fields, ok := validation.Fields(err)
	require.True(t, ok)
	require.Contains(t, fields, "type")
	require.Empty(t, repo.All())
}

func TestRecord_StorageFailureIsReturned(t *testing.T) {
	repo := memory.NewRepository()
	repo.FailWith(errors.New("disk full"))
	svc := NewService(repo)

	_, err := svc.Record(context.Background(), types.UserRegistered("u1", "a@b.com", "Ada"))
	require.EqualError(t, err, "disk full")
}

func TestRecent_NewestFirstAndClamped(t *testing.T) {
	repo := memory.NewRepository()
	seq := 0
	svc := NewService(repo, WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("a%d", seq)
	}))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Record(ctx, types.ProductUpdated(fmt.Sprintf("p%d", i), "Tee", domain.Actor{}))
		require.NoError(t, err)
	}

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "a3", recent[0].ID)
	require.Equal(t, "Admin", recent[0].ActorName())

	one, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, one, 1)
}

func TestTypeLabels(t *testing.T) {
	require.Equal(t, "New Order", domain.TypeOrderCreated.Label())
	require.Equal(t, "User Registered", domain.TypeUserRegistered.Label())
}
