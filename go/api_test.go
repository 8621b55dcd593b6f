package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	activitymemory "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/memory"
	activityapp "github.com/Apurer/go-gin-storefront/internal/domains/activity/application"
	activitydomain "github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	notifmemory "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/memory"
	notifapp "github.com/Apurer/go-gin-storefront/internal/domains/notifications/application"
	notifdomain "github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
	orderactivity "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/activity"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordernotifications "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/notifications"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	reviewsmemory "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/memory"
	reviewnotifications "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/notifications"
	revieworders "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/orders"
	reviewsapp "github.com/Apurer/go-gin-storefront/internal/domains/reviews/application"
	useractivity "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/activity"
	usersmemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	usertypes "github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

const (
	storeInbox     = "owner@store.test"
	customerEmail  = "ada@example.com"
	adminEmail     = "admin@store.test"
	adminPassword  = "admin-pass-1"
	publicBaseURL  = "https://shop.test"
	problemJSON    = "application/problem+json"
	sessionHeader  = "Authorization"
	sessionPrefix  = "Bearer "
	customerPasswd = "customer-pass-1"
)

func init() {
	gin.SetMode(gin.TestMode)
	usersdomain.PasswordCost = bcrypt.MinCost
}

type testServer struct {
	router   *gin.Engine
	orders   *ordersmemory.Repository
	activity *activitymemory.Repository
	outbox   *notifmemory.Outbox
	users    *usersapp.Service
	now      time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	outbox := notifmemory.NewOutbox()
	dispatcher := notifapp.NewDispatcher(notifapp.MustRenderer(), outbox, storeInbox, storeInbox)

	activityRepo := activitymemory.NewRepository()
	activityService := activityapp.NewService(activityRepo, activityapp.WithClock(clock))

	orderRepo := ordersmemory.NewRepository()
	orderRepo.WithClock(clock)
	orderService := ordersapp.NewService(orderRepo,
		ordersapp.WithNotifier(ordernotifications.NewNotifier(dispatcher, publicBaseURL)),
		ordersapp.WithActivityRecorder(orderactivity.NewRecorder(activityService)),
		ordersapp.WithClock(clock),
	)

	reviewService := reviewsapp.NewService(reviewsmemory.NewRepository(),
		revieworders.NewVerifier(orderService),
		reviewnotifications.NewAlerter(dispatcher),
		reviewsapp.WithClock(clock),
	)

	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(),
		usersapp.WithActivityRecorder(useractivity.NewRecorder(activityService)),
	)

	handlers := ApiHandleFunctions{
		OrdersAPI:     NewOrdersAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService)),
		ReviewsAPI:    NewReviewsAPI(reviewService),
		ContactAPI:    NewContactAPI(dispatcher),
		AdminAPI:      NewAdminAPI(orderService, activityService, func() time.Time { return now.Add(3 * time.Hour) }),
		AuthAPI:       NewAuthAPI(userService),
		Authenticator: NewAuthenticator(userService),
	}
	return &testServer{
		router:   NewRouter(handlers),
		orders:   orderRepo,
		activity: activityRepo,
		outbox:   outbox,
		users:    userService,
		now:      now,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(sessionHeader, sessionPrefix+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := s.users.EnsureAdmin(ctx, usertypes.RegisterInput{Email: adminEmail, Name: "Store Admin", Password: adminPassword})
	require.NoError(t, err)
	result, err := s.users.Login(ctx, usertypes.LoginInput{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	return result.Token
}

func (s *testServer) createTeeOrder(t *testing.T, transactionID string) map[string]any {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/orders", teeOrderBody(transactionID), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	order, ok := body["order"].(map[string]any)
	require.True(t, ok)
	return order
}

func teeOrderBody(transactionID string) map[string]any {
	return map[string]any{
		"formData": map[string]any{
			"email":     "Ada@Example.com",
			"firstName": "Ada",
			"lastName":  "Lovelace",
			"address":   "1 Analytical Way",
			"city":      "London",
			"state":     "LDN",
			"zip":       "N1",
			"phone":     "+44 20 0000",
			"country":   "UK",
		},
		"items": []map[string]any{
			{"id": "tee1-black-m", "name": "Tee", "price": 20, "quantity": 2},
		},
		"total":         45,
		"shipping":      5,
		"tax":           0,
		"transactionId": transactionID,
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *testServer) storedOrder(t *testing.T, id string) *orderdomain.Order {
	t.Helper()
	saved, err := s.orders.GetByID(context.Background(), id)
	require.NoError(t, err)
	return saved.Entity
}

func kinds(emails []notifdomain.Email) []notifdomain.Kind {
	out := make([]notifdomain.Kind, 0, len(emails))
	for _, email := range emails {
		out = append(out, email.Kind)
	}
	return out
}

func TestCreateOrder_PersistsPendingOrderWithEffects(t *testing.T) {
	s := newTestServer(t)

	order := s.createTeeOrder(t, "tx1")

	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "45.00", order["total"])
	assert.Equal(t, "40.00", order["subtotal"])
	assert.Equal(t, "5.00", order["shipping"])
	assert.Equal(t, "Credit Card", order["paymentMethod"])
	assert.Nil(t, order["cancellationReason"])

	stored := s.storedOrder(t, order["id"].(string))
	assert.Equal(t, 45.0, stored.Total)
	assert.Equal(t, orderdomain.StatusPending, stored.Status)
	assert.Equal(t, customerEmail, stored.Contact.Email)

	records := s.activity.All()
	require.Len(t, records, 1)
	assert.Equal(t, activitydomain.TypeOrderCreated, records[0].Type)
	assert.Equal(t, []notifdomain.Kind{notifdomain.KindOrderCreatedAdminAlert}, kinds(s.outbox.SentTo(storeInbox)))
}

func TestCreateOrder_ValidationReportsEveryField(t *testing.T) {
	s := newTestServer(t)
	body := teeOrderBody("")
	body["formData"].(map[string]any)["email"] = "not-an-email"
	body["formData"].(map[string]any)["city"] = "  "

	rec := s.do(t, http.MethodPost, "/orders", body, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, problemJSON, rec.Header().Get("Content-Type"))
	problem := decode(t, rec)
	fields, ok := problem["fields"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Contains(t, fields, "formData.email")
	assert.Contains(t, fields, "formData.city")
	assert.Contains(t, fields, "transactionId")
	assert.NotEmpty(t, problem["message"])
	assert.Empty(t, s.activity.All())
}

func TestCreateOrder_MissingTotalIsRequired(t *testing.T) {
	s := newTestServer(t)
	body := teeOrderBody("tx-free")
	delete(body, "total")

	rec := s.do(t, http.MethodPost, "/orders", body, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := decode(t, rec)["fields"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, "total is required", fields["total"])
	assert.Empty(t, s.activity.All())
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/orders", "{not json", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, problemJSON, rec.Header().Get("Content-Type"))
}

func TestCreateOrder_DuplicateTransactionConflicts(t *testing.T) {
	s := newTestServer(t)
	s.createTeeOrder(t, "tx1")

	rec := s.do(t, http.MethodPost, "/orders", teeOrderBody("tx1"), "")

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrder_EmailFailureDoesNotFailCheckout(t *testing.T) {
	s := newTestServer(t)
	s.outbox.FailWith(errors.New("smtp down"))

	order := s.createTeeOrder(t, "tx1")

	assert.Equal(t, "pending", order["status"])
	assert.Len(t, s.activity.All(), 1)
}

func TestUpdateOrderStatus_Delivered(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	order := s.createTeeOrder(t, "tx1")
	id := order["id"].(string)

	rec := s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "delivered"}, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "delivered", body["status"])
	assert.Nil(t, body["cancellationReason"])

	sent := s.outbox.SentTo(customerEmail)
	require.Len(t, sent, 1)
	assert.Equal(t, notifdomain.KindDelivered, sent[0].Kind)
	assert.Contains(t, sent[0].HTML, "productId=tee1")
	assert.Contains(t, sent[0].HTML, "orderId="+id)
	assert.Len(t, s.activity.All(), 1)
}

func TestUpdateOrderStatus_CancelRequiresReason(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	order := s.createTeeOrder(t, "tx1")
	id := order["id"].(string)

	rec := s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "cancelled"}, token)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "cancellationReason")
	assert.Equal(t, orderdomain.StatusPending, s.storedOrder(t, id).Status)
	assert.Empty(t, s.outbox.SentTo(customerEmail))
}

func TestUpdateOrderStatus_CancelWithReason(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	order := s.createTeeOrder(t, "tx1")
	id := order["id"].(string)

	rec := s.do(t, http.MethodPut, "/orders/"+id,
		map[string]any{"status": "cancelled", "cancellationReason": "out of stock"}, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "out of stock", decode(t, rec)["cancellationReason"])
	stored := s.storedOrder(t, id)
	assert.Equal(t, orderdomain.StatusCancelled, stored.Status)
	assert.Equal(t, "out of stock", stored.CancellationReason)

	sent := s.outbox.SentTo(customerEmail)
	require.Len(t, sent, 1)
	assert.Equal(t, notifdomain.KindCancelled, sent[0].Kind)
	assert.Contains(t, sent[0].HTML, "out of stock")
}

func TestUpdateOrderStatus_TransportFailureStillSucceeds(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	id := s.createTeeOrder(t, "tx1")["id"].(string)
	s.outbox.FailWith(errors.New("smtp down"))

	rec := s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "shipped"}, token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orderdomain.StatusShipped, s.storedOrder(t, id).Status)
}

func TestUpdateOrderStatus_UnknownOrderAndStatus(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	id := s.createTeeOrder(t, "tx1")["id"].(string)

	rec := s.do(t, http.MethodPut, "/orders/missing", map[string]any{"status": "shipped"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "lost"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "status")
}

func TestAdminRoutes_RequireAdminSession(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeeOrder(t, "tx1")["id"].(string)

	rec := s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "shipped"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/register",
		map[string]any{"email": "grace@example.com", "name": "Grace", "password": customerPasswd}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/auth/login",
		map[string]any{"email": "grace@example.com", "password": customerPasswd}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	customerToken := decode(t, rec)["token"].(string)

	rec = s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "shipped"}, customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodGet, "/admin/dashboard", nil, customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, orderdomain.StatusPending, s.storedOrder(t, id).Status)
}

func TestListOrders_PagesAndQueries(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	first := s.createTeeOrder(t, "tx1")["id"].(string)
	s.createTeeOrder(t, "tx2")

	rec := s.do(t, http.MethodGet, "/orders?page=1&limit=1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 2, body["totalPages"])
	assert.Len(t, body["orders"], 1)

	rec = s.do(t, http.MethodGet, "/orders?query="+first, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.EqualValues(t, 1, body["total"])
	orders := body["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, first, orders[0].(map[string]any)["id"])

	rec = s.do(t, http.MethodGet, "/orders/"+first, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 Analytical Way, London, LDN N1, UK", decode(t, rec)["customerDetails"].(map[string]any)["address"])
}

func TestTrackOrder(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeeOrder(t, "tx1")["id"].(string)

	rec := s.do(t, http.MethodPost, "/track", map[string]any{"orderId": id, "email": "ADA@example.COM"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, id, body["orderId"])
	assert.Equal(t, "pending", body["status"])

	rec = s.do(t, http.MethodPost, "/track", map[string]any{"orderId": id, "email": "bob@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/track", map[string]any{"orderId": id}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "email")
}

func TestSubmitReview(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeeOrder(t, "tx1")["id"].(string)

	rec := s.do(t, http.MethodPost, "/reviews?productId=tee1&orderId="+id,
		map[string]any{"name": "Ada", "rating": 2, "comment": "Shrunk in the wash"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, ReviewSubmittedMessage, decode(t, rec)["message"])
	assert.Contains(t, kinds(s.outbox.SentTo(storeInbox)), notifdomain.KindNegativeReviewAlert)

	rec = s.do(t, http.MethodPost, "/reviews?productId=other&orderId="+id,
		map[string]any{"name": "Ada", "rating": 5}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/reviews?productId=tee1&orderId="+id,
		map[string]any{"name": "Ada", "rating": 9}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "rating")

	rec = s.do(t, http.MethodGet, "/products/tee1/reviews", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.EqualValues(t, 2, reviews[0]["rating"])
}

func TestSendContactMessage(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"name": "Ada", "email": "ada@example.com", "subject": "Sizing", "message": "Does the tee run small?"}

	rec := s.do(t, http.MethodPost, "/contact", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sent := s.outbox.SentTo(storeInbox)
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].ReplyTo)
	assert.Equal(t, "Sizing", sent[0].Subject)

	s.outbox.FailWith(errors.New("smtp down"))
	rec = s.do(t, http.MethodPost, "/contact", body, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = s.do(t, http.MethodPost, "/contact", map[string]any{"name": "Ada"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "subject")
}

func TestGetDashboard(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	id := s.createTeeOrder(t, "tx1")["id"].(string)
	s.createTeeOrder(t, "tx2")
	rec := s.do(t, http.MethodPut, "/orders/"+id, map[string]any{"status": "delivered"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/admin/dashboard", nil, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.EqualValues(t, 1, view.Stats.PendingOrders)
	assert.EqualValues(t, 1, view.Stats.CompletedOrders)
	require.Len(t, view.RecentOrders, 2)
	assert.Equal(t, "Ada Lovelace", view.RecentOrders[0].Customer)
	assert.Equal(t, "3 hours ago", view.RecentOrders[0].Timestamp)
	require.Len(t, view.RecentActivity, 2)
	assert.Equal(t, "New Order", view.RecentActivity[0].Type)
	assert.True(t, strings.HasPrefix(view.RecentActivity[0].Details, "New order #"))
}

func TestLogout_InvalidatesSession(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	rec := s.do(t, http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/admin/dashboard", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_HealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", nil, "").Code)
	rec := s.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, problemJSON, rec.Header().Get("Content-Type"))
}
