package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrOutOfStock     = errors.New("not enough stock")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrUnreachable    = errors.New("storefront api unreachable")
	ErrStorageFailure = errors.New("failed to persist local state")
	ErrNotInitialized = errors.New("cart not initialized")
	ErrRejected       = errors.New("request rejected")
)

// ErrOrderNotFound is ErrNotFound for an order; errors.Is matches both.
var ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)

// RejectedError carries the reason the API gave for refusing an order or registration.
type RejectedError struct {
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	if e == nil {
		return ErrRejected.Error()
	}
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		return fmt.Sprintf("%s (status %d)", ErrRejected.Error(), e.Status)
	}
	return fmt.Sprintf("%s: %s", ErrRejected.Error(), reason)
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// StockError explains an OutOfStock failure.
type StockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: product %d requested %d available %d", ErrOutOfStock.Error(), e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool { return target == ErrOutOfStock }

var ErrInvalid = errors.New("invalid input")

// ValidationError names the first field that failed client-side checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ErrInvalid.Error()
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalid.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalid.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }
