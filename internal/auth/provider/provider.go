// Package provider dispatches account revalidation to the identity provider
// matching each account's type.
package provider

import (
	"context"
	"errors"

	"github.com/pysugar/launcher-accounts/internal/db/models"
)

// Adapter revalidates one account against its identity provider and returns
// the refreshed record.
type Adapter interface {
	Revalidate(ctx context.Context, account models.Account) (models.Account, error)
}

// Func adapts a plain function to Adapter.
type Func func(ctx context.Context, account models.Account) (models.Account, error)

func (f Func) Revalidate(ctx context.Context, account models.Account) (models.Account, error) {
	return f(ctx, account)
}

// Passthrough returns accounts unchanged. Used for types without a provider.
type Passthrough struct{}

func (Passthrough) Revalidate(_ context.Context, account models.Account) (models.Account, error) {
	return account, nil
}

// ProviderError is the single failure shape of a revalidation call, whether
// the provider call itself failed or its response carried an error.
type ProviderError struct {
	Type    models.AccountType
	Account string // display name
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// EmbeddedError is an error reported inside an otherwise delivered response.
type EmbeddedError struct {
	Code    string
	Message string
}

func (e *EmbeddedError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return e.Code + ": " + e.Message
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	}
	return "provider reported an error"
}

// Embedded builds the error for a response whose body reports a failure.
func Embedded(code, message string) error {
	return &EmbeddedError{Code: code, Message: message}
}

// Registry selects an Adapter by account type.
type Registry struct {
	adapters map[models.AccountType]Adapter
	fallback Adapter
}

// NewRegistry creates a registry whose unknown types pass through unchanged.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[models.AccountType]Adapter),
		fallback: Passthrough{},
	}
}

// Register binds an adapter to an account type, replacing any previous one.
func (r *Registry) Register(accountType models.AccountType, adapter Adapter) *Registry {
	r.adapters[accountType] = adapter
	return r
}

// Lookup returns the adapter for an account type, or the passthrough.
func (r *Registry) Lookup(accountType models.AccountType) Adapter {
	if adapter, ok := r.adapters[accountType]; ok {
		return adapter
	}
	return r.fallback
}

// Revalidate dispatches to the account's adapter. Every failure is returned
// as a *ProviderError.
func (r *Registry) Revalidate(ctx context.Context, account models.Account) (models.Account, error) {
	refreshed, err := r.Lookup(account.Type).Revalidate(ctx, account)
	if err != nil {
		return models.Account{}, AsProviderError(account, err)
	}
	return refreshed, nil
}

// AsProviderError returns err as a *ProviderError for account, keeping an
// existing ProviderError in the chain.
func AsProviderError(account models.Account, err error) *ProviderError {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr
	}
	return &ProviderError{
		Type:    account.Type,
		Account: account.Name,
		Message: err.Error(),
		Err:     err,
	}
}
