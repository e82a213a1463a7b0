package auth

import "context"

// SetSessionIDForTest injects a session ID into the context for testing
// purposes.
func SetSessionIDForTest(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}
