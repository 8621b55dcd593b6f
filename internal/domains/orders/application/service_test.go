package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

type countingRepo struct {
	*memory.Repository
	creates int
	updates int
}

func (c *countingRepo) Create(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	c.creates++
	return c.Repository.Create(ctx, order)
}

func (c *countingRepo) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*types.OrderProjection, error) {
	c.updates++
	return c.Repository.UpdateStatus(ctx, id, change)
}

type fakeNotifier struct {
	mu       sync.Mutex
	placed   []string
	changed  []domain.Status
	failWith error
}

func (f *fakeNotifier) OrderPlaced(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, order.ID)
	return f.failWith
}

func (f *fakeNotifier) StatusChanged(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, order.Status)
	return f.failWith
}

type fakeActivity struct {
	recorded []types.Actor
}

func (f *fakeActivity) OrderCreated(_ context.Context, _ *domain.Order, actor types.Actor) error {
	f.recorded = append(f.recorded, actor)
	return nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(_ context.Context, event domain.Event) error {
	f.events = append(f.events, event.EventName())
	return nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *countingRepo) {
	t.Helper()
	repo := &countingRepo{Repository: memory.NewRepository()}
	seq := 0
	opts = append([]Option{WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("order-%d", seq)
	})}, opts...)
	return NewService(repo, opts...), repo
}

func checkoutInput(tx string) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		Contact: domain.Contact{
			Email: "A@B.com", FirstName: "Ada", LastName: "L", Address: "1 Way",
			City: "X", State: "Y", Zip: "1", Phone: "5", Country: "NG",
		},
		Items:         []domain.LineItem{{Name: "Tee", Price: 20, Quantity: 2}},
		Total:         45,
		Shipping:      5,
		Tax:           0,
		TransactionID: tx,
	}
}

func TestPlaceOrder_PersistsPendingAndRunsEffects(t *testing.T) {
	notifier := &fakeNotifier{}
	activity := &fakeActivity{}
	events := &fakePublisher{}
	svc, repo := newTestService(t, WithNotifier(notifier), WithActivityRecorder(activity), WithEventPublisher(events))

	input := checkoutInput("T1")
	input.Actor = types.Actor{Name: "Ada L", IPAddress: "10.0.0.1"}
	result, err := svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 1, repo.creates)
	require.Equal(t, domain.StatusPending, result.Order.Entity.Status)
	require.Equal(t, "a@b.com", result.Order.Entity.Contact.Email)
	require.Empty(t, result.Order.Entity.CancellationReason)
	require.Empty(t, result.Effects.Failures())
	require.Equal(t, []string{"order-1"}, notifier.placed)
	require.Len(t, activity.recorded, 1)
	require.Equal(t, "10.0.0.1", activity.recorded[0].IPAddress)
	require.Equal(t, []string{"orders.created"}, events.events)
}

func TestPlaceOrder_ValidationFailsBeforeWrite(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, repo := newTestService(t, WithNotifier(notifier))

	input := checkoutInput("T1")
	input.Items = nil
	input.Contact.Email = ""
	_, err := svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, validation.ErrInvalid)

	fields, ok := validation.Fields(err)
	require.True(t, ok)
	require.Contains(t, fields, "items")
	require.Contains(t, fields, "formData.email")
	require.Zero(t, repo.creates)
	require.Empty(t, notifier.placed)
}

func TestPlaceOrder_DuplicateTransaction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, checkoutInput("T1"))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, checkoutInput("T1"))
	require.ErrorIs(t, err, ports.ErrDuplicateTransaction)
}

func TestPersistOrder_PreassignedIDIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	input := checkoutInput("T1")
	input.OrderID = "wf-order-1"

	first, err := svc.PersistOrder(ctx, input)
	require.NoError(t, err)
	again, err := svc.PersistOrder(ctx, input)
	require.NoError(t, err)

	require.Equal(t, "wf-order-1", first.Entity.ID)
	require.Equal(t, first.Entity.ID, again.Entity.ID)
	require.Equal(t, 2, repo.creates)
	_, total, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	other := checkoutInput("T1")
	other.OrderID = "wf-order-2"
	_, err = svc.PersistOrder(ctx, other)
	require.ErrorIs(t, err, ports.ErrDuplicateTransaction)
}

func TestPlaceOrder_NotificationFailureStillSucceeds(t *testing.T) {
	notifier := &fakeNotifier{failWith: errors.New("smtp down")}
	svc, _ := newTestService(t, WithNotifier(notifier))

	result, err := svc.PlaceOrder(context.Background(), checkoutInput("T1"))
	require.NoError(t, err)
	outcome, ok := result.Effects.Outcome(types.EffectAdminAlert)
	require.True(t, ok)
	require.True(t, outcome.Failed())
	require.Contains(t, outcome.Error, "smtp down")

	stored, err := svc.GetByID(context.Background(), result.Order.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, stored.Entity.Status)
}

func TestTransition_DeliveredNotifiesCustomer(t *testing.T) {
	notifier := &fakeNotifier{}
	events := &fakePublisher{}
	svc, _ := newTestService(t, WithNotifier(notifier), WithEventPublisher(events))
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, checkoutInput("T1"))
	require.NoError(t, err)

	result, err := svc.Transition(ctx, types.TransitionInput{OrderID: placed.Order.Entity.ID, Status: "delivered"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, result.Order.Entity.Status)
	require.Equal(t, []domain.Status{domain.StatusDelivered}, notifier.changed)
	require.Contains(t, events.events, "orders.status_changed")
	require.Empty(t, result.Effects.Failures())
}

func TestTransition_CancelledRequiresReason(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, repo := newTestService(t, WithNotifier(notifier))
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, checkoutInput("T1"))
	require.NoError(t, err)
	id := placed.Order.Entity.ID

	_, err = svc.Transition(ctx, types.TransitionInput{OrderID: id, Status: "cancelled", Reason: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrMissingCancellationReason)
	fields, ok := validation.Fields(err)
	require.True(t, ok)
	require.Contains(t, fields, "cancellationReason")
	require.Zero(t, repo.updates)
	require.Empty(t, notifier.changed)

	result, err := svc.Transition(ctx, types.TransitionInput{OrderID: id, Status: "cancelled", Reason: "Out of stock"})
	require.NoError(t, err)
	require.Equal(t, "Out of stock", result.Order.Entity.CancellationReason)

	reopened, err := svc.Transition(ctx, types.TransitionInput{OrderID: id, Status: "processing", Reason: "ignored"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusProcessing, reopened.Order.Entity.Status)
	require.Empty(t, reopened.Order.Entity.CancellationReason)
}

func TestTransition_InvalidStatusAndMissingOrder(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Transition(ctx, types.TransitionInput{OrderID: "x", Status: "lost"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, repo.updates)

	_, err = svc.Transition(ctx, types.TransitionInput{OrderID: "missing", Status: "shipped"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTransition_NotificationFailureKeepsStatus(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, WithNotifier(notifier))
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, checkoutInput("T1"))
	require.NoError(t, err)

	notifier.failWith = errors.New("mailbox full")
	result, err := svc.Transition(ctx, types.TransitionInput{OrderID: placed.Order.Entity.ID, Status: "shipped"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, result.Order.Entity.Status)
	require.Len(t, result.Effects.Failures(), 1)
	require.Error(t, result.Effects.Err())
}

func TestTrack_IsCaseInsensitiveOnEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, checkoutInput("T1"))
	require.NoError(t, err)

	view, err := svc.Track(ctx, types.TrackInput{OrderID: placed.Order.Entity.ID, Email: "  a@B.COM "})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, view.Status)
	require.Equal(t, placed.Order.Metadata.UpdatedAt, view.LastUpdated)

	_, err = svc.Track(ctx, types.TrackInput{OrderID: placed.Order.Entity.ID, Email: "x@y.com"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.Track(ctx, types.TrackInput{OrderID: "", Email: ""})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_PagesNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := svc.PlaceOrder(ctx, checkoutInput(fmt.Sprintf("T%d", i)))
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, types.ListOrdersInput{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Page)
	require.Equal(t, 8, first.Limit)
	require.Len(t, first.Orders, 8)
	require.Equal(t, int64(10), first.Total)
	require.Equal(t, 2, first.TotalPages)
	require.Equal(t, "order-10", first.Orders[0].Entity.ID)

	second, err := svc.List(ctx, types.ListOrdersInput{Page: 2, Limit: 8})
	require.NoError(t, err)
	require.Len(t, second.Orders, 2)

	byID, err := svc.List(ctx, types.ListOrdersInput{Query: "order-3"})
	require.NoError(t, err)
	require.Len(t, byID.Orders, 1)
	require.Equal(t, int64(1), byID.Total)

	none, err := svc.List(ctx, types.ListOrdersInput{Query: "nope"})
	require.NoError(t, err)
	require.Empty(t, none.Orders)
	require.Zero(t, none.TotalPages)
}

func TestSummary_CountsAndRecent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, err := svc.PlaceOrder(ctx, checkoutInput(fmt.Sprintf("T%d", i)))
		require.NoError(t, err)
	}
	_, err := svc.Transition(ctx, types.TransitionInput{OrderID: "order-1", Status: "delivered"})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), summary.PendingOrders)
	require.Equal(t, int64(1), summary.DeliveredOrders)
	require.Len(t, summary.RecentOrders, 4)
}

func TestFindLineItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := checkoutInput("T1")
	input.Items = []domain.LineItem{{ID: "p9-red-m", Name: "Tee", Price: 20, Quantity: 2}}
	placed, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)

	item, err := svc.FindLineItem(ctx, placed.Order.Entity.ID, "p9")
	require.NoError(t, err)
	require.Equal(t, "Tee", item.Name)

	_, err = svc.FindLineItem(ctx, placed.Order.Entity.ID, "p1")
	require.ErrorIs(t, err, ports.ErrItemNotFound)
}
