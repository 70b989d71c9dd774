package requestctx

import (
	"context"
	"testing"

	"empdir/internal/auth"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" {
		t.Fatal("expected empty request id")
	}
	if _, ok := GetUser(ctx); ok {
		t.Fatal("expected no user")
	}

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUser(ctx, auth.UserContext{UserID: "u1", Username: "alice"})

	if GetRequestID(ctx) != "req-1" {
		t.Fatalf("unexpected request id %q", GetRequestID(ctx))
	}
	user, ok := GetUser(ctx)
	if !ok || user.UserID != "u1" || user.Username != "alice" {
		t.Fatalf("unexpected user %+v", user)
	}
}
