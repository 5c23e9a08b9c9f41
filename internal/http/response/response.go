package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/notify"
	"github.com/yungbote/storefront/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error        APIError             `json:"error"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// RespondError answers with the status and code apierr assigns to err. The
// notification, when given, is what the page should show the shopper.
func RespondError(c *gin.Context, err error, note *notify.Notification) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "INTERNAL", nil)
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Code,
		},
		Notification: note,
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
