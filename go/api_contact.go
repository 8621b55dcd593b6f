package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notifmapper "github.com/Apurer/go-gin-storefront/internal/domains/notifications/adapters/http/mapper"
	notifports "github.com/Apurer/go-gin-storefront/internal/domains/notifications/ports"
)

// ContactSentMessage confirms a relayed contact form.
const ContactSentMessage = "Email sent successfully"

// ContactAPI relays storefront contact forms to the store owner.
type ContactAPI struct {
	dispatcher notifports.Dispatcher
}

func NewContactAPI(dispatcher notifports.Dispatcher) ContactAPI {
	return ContactAPI{dispatcher: dispatcher}
}

// Post /contact
// Send a message to the store owner. Delivery is the whole operation, so a
// transport failure is reported to the caller.
func (api *ContactAPI) SendContactMessage(c *gin.Context) {
	var payload notifmapper.ContactRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	if err := api.dispatcher.SendToAdmin(c.Request.Context(), notifmapper.ToContactMessage(payload), payload.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifmapper.ContactAccepted{Message: ContactSentMessage})
}
