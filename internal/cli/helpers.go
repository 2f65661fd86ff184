// Package cli provides CLI commands for the sage application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/example/sage/internal/ctxutil"
)

// NewContext creates a context.Background() with the invoking user embedded.
// CLI commands should use this instead of context.Background() directly;
// SAGE_USER supplies the identity when no --user flag is given.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if user := os.Getenv("SAGE_USER"); user != "" {
		return ctxutil.WithUserID(ctx, user)
	}
	return ctx
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
