package ctxutil

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type traceDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// RequestID returns the request id carried by ctx, minting one when absent so
// outgoing API calls can always be correlated with local logs.
func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil && strings.TrimSpace(td.RequestID) != "" {
		return td.RequestID
	}
	return uuid.NewString()
}
