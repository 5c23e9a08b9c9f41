package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/platform/apierr"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the shopper.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	At      time.Time `json:"at"`
}

type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Notifier fans a notification out to every sink. Sink failures are logged
// and dropped; they never fail the operation that produced the message.
type Notifier struct {
	sinks []Sink
	log   *logger.Logger
	now   func() time.Time
}

func New(log *logger.Logger, sinks ...Sink) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{sinks: sinks, log: log.With("component", "notify"), now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, msg Notification) Notification {
	if msg.At.IsZero() {
		msg.At = n.now().UTC()
	}
	if msg.Level == "" {
		msg.Level = LevelSuccess
	}
	for _, s := range n.sinks {
		if err := s.Notify(ctx, msg); err != nil {
			n.log.Warn("notification sink failed", "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
	return msg
}

func (n *Notifier) Success(ctx context.Context, message string) Notification {
	return n.Notify(ctx, Notification{Level: LevelSuccess, Message: message})
}

// Error converts err into a shopper-facing message and sends it.
func (n *Notifier) Error(ctx context.Context, err error) Notification {
	return n.Notify(ctx, FromError(err))
}

// FromError maps the storefront error taxonomy onto a message. Nil gives a
// zero Notification.
func FromError(err error) Notification {
	if err == nil {
		return Notification{}
	}
	n := Notification{Level: LevelError, Code: apierr.From(err).Code}

	var (
		stock *domain.StockError
		rej   *domain.RejectedError
		inv   *domain.ValidationError
	)
	switch {
	case errors.As(err, &inv):
		n.Message = validationMessage(inv)
	case errors.As(err, &stock):
		if stock.Available <= 0 {
			n.Message = "This product is out of stock"
		} else {
			n.Message = fmt.Sprintf("Only %d left in stock", stock.Available)
		}
	case errors.Is(err, domain.ErrOutOfStock):
		n.Message = "Not enough stock"
	case errors.Is(err, domain.ErrOrderNotFound):
		n.Message = "Order not found"
	case errors.Is(err, domain.ErrNotFound):
		n.Message = "Product not found"
	case errors.Is(err, domain.ErrEmptyCart):
		n.Message = "Your cart is empty"
	case errors.As(err, &rej):
		if strings.TrimSpace(rej.Reason) != "" {
			n.Message = rej.Reason
		} else {
			n.Message = "The store rejected the request"
		}
	case errors.Is(err, domain.ErrUnreachable):
		n.Message = "Could not reach the store, please try again"
	case errors.Is(err, domain.ErrStorageFailure):
		n.Message = "Your cart could not be saved on this device"
	case errors.Is(err, domain.ErrNotInitialized):
		n.Message = "The cart is still loading"
	default:
		n.Message = "Something went wrong"
	}
	return n
}

func validationMessage(e *domain.ValidationError) string {
	field := strings.ReplaceAll(e.Field, "_", " ")
	if field == "" {
		return e.Reason
	}
	if e.Field == "confirm_password" {
		return "Passwords do not match"
	}
	return strings.ToUpper(field[:1]) + field[1:] + " " + e.Reason
}
