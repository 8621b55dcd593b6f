package api

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOrderWorkflows_MemoryStoreStaysInline(t *testing.T) {
	orders := ordersapp.NewService(ordersmemory.NewRepository())
	dialed := false

	workflows, closeWorkflows := newOrderWorkflows(Config{StoreBackend: BackendMemory}, orders, func() (client.Client, error) {
		dialed = true
		return &temporalmocks.Client{}, nil
	}, discardLogger())
	defer closeWorkflows()

	assert.False(t, dialed)
	assert.IsType(t, &orderworkflows.InlineOrderWorkflows{}, workflows)
}

func TestNewOrderWorkflows_SharedStoreUsesTemporal(t *testing.T) {
	orders := ordersapp.NewService(ordersmemory.NewRepository())
	temporalClient := &temporalmocks.Client{}
	temporalClient.On("Close").Return()

	workflows, closeWorkflows := newOrderWorkflows(Config{StoreBackend: BackendPostgres}, orders, func() (client.Client, error) {
		return temporalClient, nil
	}, discardLogger())

	assert.IsType(t, &orderworkflows.TemporalOrderWorkflows{}, workflows)
	closeWorkflows()
	temporalClient.AssertExpectations(t)
}

func TestNewOrderWorkflows_UnreachableTemporalFallsBackInline(t *testing.T) {
	orders := ordersapp.NewService(ordersmemory.NewRepository())

	workflows, closeWorkflows := newOrderWorkflows(Config{StoreBackend: BackendMongo}, orders, func() (client.Client, error) {
		return nil, errors.New("dial tcp: connection refused")
	}, discardLogger())
	defer closeWorkflows()

	require.NotNil(t, workflows)
	assert.IsType(t, &orderworkflows.InlineOrderWorkflows{}, workflows)
}
