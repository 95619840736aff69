package usecase

import (
	"context"

	"go-collab-backend/internal/domain"
)

// userIDFromContext resolves the authenticated user. Handlers pass the gin
// context straight through, which stores keys as strings (c.Set), while
// tests use context.WithValue with the typed key; accept both.
func userIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(string(domain.KeyUserID)).(string); ok && id != "" {
		return id
	}
	if id, ok := ctx.Value(domain.KeyUserID).(string); ok {
		return id
	}
	return ""
}
