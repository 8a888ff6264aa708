package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pysugar/launcher-accounts/internal/db/models"
)

func TestRegistry_UnknownTypePassesThrough(t *testing.T) {
	calls := 0
	reg := NewRegistry().Register(models.AccountTypeXbox, Func(func(ctx context.Context, acc models.Account) (models.Account, error) {
		calls++
		return acc, nil
	}))

	in := models.Account{ID: "a1", Type: "Legacy", Name: "notch", AccessToken: "tok"}
	out, err := reg.Revalidate(context.Background(), in)
	if err != nil {
		t.Fatalf("expected passthrough success, got %v", err)
	}
	if out != in {
		t.Fatalf("expected account unchanged, got %+v", out)
	}
	if calls != 0 {
		t.Fatalf("expected no adapter call, got %d", calls)
	}
}

func TestRegistry_WrapsPlainErrors(t *testing.T) {
	cause := errors.New("connection refused")
	reg := NewRegistry().Register(models.AccountTypeTokenAuth, Func(func(ctx context.Context, acc models.Account) (models.Account, error) {
		return models.Account{}, cause
	}))

	_, err := reg.Revalidate(context.Background(), models.Account{ID: "a1", Type: models.AccountTypeTokenAuth, Name: "alex"})
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if providerErr.Account != "alex" || providerErr.Type != models.AccountTypeTokenAuth {
		t.Fatalf("unexpected fields: %+v", providerErr)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected ProviderError to unwrap to the cause")
	}
}

func TestRegistry_KeepsProviderErrors(t *testing.T) {
	orig := &ProviderError{Type: models.AccountTypeXbox, Account: "steve", Message: "invalid_grant"}
	reg := NewRegistry().Register(models.AccountTypeXbox, Func(func(ctx context.Context, acc models.Account) (models.Account, error) {
		return models.Account{}, orig
	}))

	_, err := reg.Revalidate(context.Background(), models.Account{Type: models.AccountTypeXbox})
	if err != orig {
		t.Fatalf("expected original ProviderError, got %v", err)
	}
}

func TestEmbeddedErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		message string
		want    string
	}{
		{name: "both", code: "ForbiddenOperationException", message: "Invalid token.", want: "ForbiddenOperationException: Invalid token."},
		{name: "message only", message: "Token expired", want: "Token expired"},
		{name: "code only", code: "invalid_grant", want: "invalid_grant"},
		{name: "neither", want: "provider reported an error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Embedded(tt.code, tt.message).Error(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("short string changed: %q", got)
	}
	got := Truncate(strings.Repeat("x", 20), 10)
	if got != "xxxxxxxxxx... [truncated, 20 bytes total]" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
