package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/storefront/internal/domain"
)

func TestFromMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{&domain.StockError{ProductID: 1, Requested: 2, Available: 1}, http.StatusConflict, "OUT_OF_STOCK"},
		{domain.ErrEmptyCart, http.StatusUnprocessableEntity, "EMPTY_CART"},
		{&domain.RejectedError{Status: 400, Reason: "nope"}, http.StatusBadRequest, "REJECTED"},
		{&domain.RejectedError{Status: 500, Reason: "boom"}, http.StatusBadRequest, "REJECTED"},
		{fmt.Errorf("x: %w", domain.ErrUnreachable), http.StatusBadGateway, "UNREACHABLE"},
		{fmt.Errorf("x: %w", domain.ErrStorageFailure), http.StatusInsufficientStorage, "STORAGE_FAILURE"},
		{&domain.ValidationError{Field: "password", Reason: "too short"}, http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrNotInitialized, http.StatusServiceUnavailable, "NOT_INITIALIZED"},
		{errors.New("weird"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		got := From(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("%v: got %d/%s want %d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
	if From(nil) != nil {
		t.Fatalf("nil should map to nil")
	}
}

func TestFromKeepsExplicitError(t *testing.T) {
	in := New(http.StatusBadRequest, "INVALID_INPUT", errors.New("bad id"))
	if got := From(fmt.Errorf("wrap: %w", in)); got != in {
		t.Fatalf("expected same error back")
	}
}
