package ctxutil

import (
	"context"
	"testing"
)

func TestRequestIDPrefersContext(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "req-1"})
	if got := RequestID(ctx); got != "req-1" {
		t.Fatalf("got %q", got)
	}
}

func TestRequestIDMintsWhenMissing(t *testing.T) {
	a := RequestID(context.Background())
	b := RequestID(context.Background())
	if a == "" || a == b {
		t.Fatalf("expected fresh ids, got %q and %q", a, b)
	}
}
