package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RenderIDKey is the context key for the per-invocation render ID
const RenderIDKey contextKey = "render_id"

// WithRenderID adds a render ID to the context
func WithRenderID(ctx context.Context, renderID string) context.Context {
	return context.WithValue(ctx, RenderIDKey, renderID)
}

// GetRenderID retrieves the render ID from the context.
// Returns empty string if not set.
func GetRenderID(ctx context.Context) string {
	if id, ok := ctx.Value(RenderIDKey).(string); ok {
		return id
	}
	return ""
}

// NewRenderID generates a UUID identifying one statusline render
func NewRenderID() string {
	return uuid.New().String()
}
