package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/account"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/http/response"
	"github.com/yungbote/storefront/internal/notify"
)

type AccountService interface {
	Register(ctx context.Context, r account.Registration) (domain.User, error)
	Current(ctx context.Context) (domain.CurrentUser, bool)
	SignOut(ctx context.Context) error
}

type AccountHandler struct {
	accounts AccountService
	notifier *notify.Notifier
}

func NewAccountHandler(svc AccountService, n *notify.Notifier) *AccountHandler {
	if n == nil {
		n = notify.New(nil)
	}
	return &AccountHandler{accounts: svc, notifier: n}
}

// POST /api/users
// body: { "email", "first_name", "last_name", "password", "confirm_password" }
func (h *AccountHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	var req account.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, &domain.ValidationError{Reason: "request body must be a JSON object"})
		return
	}
	u, err := h.accounts.Register(ctx, req)
	switch {
	case err == nil:
		response.RespondCreated(c, gin.H{"user": u, "notification": h.notifier.Success(ctx, "Account created")})
	case u.ID != 0 && errors.Is(err, domain.ErrStorageFailure):
		_ = c.Error(err)
		response.RespondCreated(c, gin.H{"user": u, "notification": h.notifier.Error(ctx, err)})
	default:
		h.fail(c, err)
	}
}

// GET /api/session
func (h *AccountHandler) Current(c *gin.Context) {
	cu, ok := h.accounts.Current(c.Request.Context())
	if !ok {
		response.RespondOK(c, gin.H{"signed_in": false})
		return
	}
	response.RespondOK(c, gin.H{"signed_in": true, "user": cu})
}

// DELETE /api/session
func (h *AccountHandler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.accounts.SignOut(ctx); err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, gin.H{"signed_in": false, "notification": h.notifier.Success(ctx, "Signed out")})
}

func (h *AccountHandler) fail(c *gin.Context, err error) {
	n := h.notifier.Error(c.Request.Context(), err)
	response.RespondError(c, err, &n)
}
