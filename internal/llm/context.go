package llm

import (
	"context"

	"github.com/google/uuid"
)

type callKey struct{}

// Call identifies one logical generation. Retries of a call share its
// RequestID, so the recorded attempts can be grouped.
type Call struct {
	Purpose   string
	RequestID string
}

// WithPurpose starts a call labelled purpose with a fresh request id.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, callKey{}, Call{Purpose: purpose, RequestID: uuid.NewString()})
}

// CallFrom returns the call started by WithPurpose. Outside one the purpose
// is "unknown" and the request id is empty.
func CallFrom(ctx context.Context) Call {
	if c, ok := ctx.Value(callKey{}).(Call); ok {
		return c
	}
	return Call{Purpose: "unknown"}
}
