package storefrontserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// OrderCreatedMessage is the success message returned for checkouts.
const OrderCreatedMessage = "Order processed successfully."

// OrdersAPI wires HTTP transport with the orders bounded context service and workflows.
type OrdersAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// Post /orders
// Place an order for a confirmed payment
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload ordermapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input, err := ordermapper.ToPlaceOrderInput(payload, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.CreatedOrderView{
		Message: OrderCreatedMessage,
		Order:   ordermapper.FromProjection(result.Order),
	})
}

func (api *OrdersAPI) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.PlacementResult, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /orders
// List orders newest first, or look one up by id via ?query=
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	input := ordertypes.ListOrdersInput{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
		Query: c.Query("query"),
	}
	list, err := api.service.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromList(list))
}

// Get /orders/:id
// Find order by ID
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(order))
}

// Put /orders/:id
// Change the status of an order
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	var payload ordermapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := api.service.Transition(c.Request.Context(), ordermapper.ToTransitionInput(c.Param("id"), payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(result.Order))
}

// Post /track
// Look up an order status by id and contact email
func (api *OrdersAPI) TrackOrder(c *gin.Context) {
	var payload ordermapper.TrackRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	view, err := api.service.Track(c.Request.Context(), ordertypes.TrackInput{OrderID: payload.OrderID, Email: payload.Email})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTracking(view))
}

// actorFrom describes the caller for audit entries.
func actorFrom(c *gin.Context) ordertypes.Actor {
	actor := ordertypes.Actor{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if principal, ok := PrincipalFrom(c); ok {
		actor.UserID = principal.UserID
		actor.Name = principal.Name
	}
	return actor
}

// queryInt returns 0 for a missing or malformed value so the service default applies.
func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
