package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Readiness reports whether a dependency is usable.
type Readiness interface {
	Initialized() bool
}

type HealthHandler struct {
	cart Readiness
}

func NewHealthHandler(cart Readiness) *HealthHandler { return &HealthHandler{cart: cart} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.cart != nil && !h.cart.Initialized() {
		c.String(http.StatusServiceUnavailable, "cart not initialized")
		return
	}
	c.String(http.StatusOK, "ok")
}
