package requestctx_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/item-tracker/internal/requestctx"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := requestctx.RequestID(ctx); got != "" {
		t.Errorf("RequestID on empty ctx = %q, want empty", got)
	}

	id := requestctx.NewRequestID()
	if got := requestctx.RequestID(requestctx.WithRequestID(ctx, id)); got != id {
		t.Errorf("RequestID = %q, want %q", got, id)
	}
}

func TestUserID(t *testing.T) {
	ctx := context.Background()
	if _, ok := requestctx.UserID(ctx); ok {
		t.Error("UserID on empty ctx should report false")
	}

	id, ok := requestctx.UserID(requestctx.WithUserID(ctx, 42))
	if !ok || id != 42 {
		t.Errorf("UserID = (%d, %v), want (42, true)", id, ok)
	}
}
