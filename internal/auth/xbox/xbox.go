// Package xbox refreshes Microsoft (Xbox) accounts with their stored OAuth
// refresh token.
package xbox

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// DefaultClientID is the public client id used when the launcher settings
// do not provide one.
const DefaultClientID = "00000000402b5328"

// Scopes requested on refresh.
var Scopes = []string{"XboxLive.signin", "offline_access"}

// Adapter refreshes Xbox accounts.
type Adapter struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithEndpoint overrides the OAuth endpoint (tests, sovereign clouds).
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(a *Adapter) {
		if endpoint.AuthStyle == oauth2.AuthStyleAutoDetect {
			endpoint.AuthStyle = oauth2.AuthStyleInParams
		}
		a.config.Endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for token requests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) { a.httpClient = client }
}

// New creates an adapter for the given OAuth client id.
func New(clientID string, opts ...Option) *Adapter {
	if strings.TrimSpace(clientID) == "" {
		clientID = DefaultClientID
	}
	endpoint := microsoft.LiveConnectEndpoint
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	a := &Adapter{
		config: &oauth2.Config{
			ClientID: clientID,
			Scopes:   Scopes,
			Endpoint: endpoint,
		},
		httpClient: provider.NewHTTPClient(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Revalidate exchanges the stored refresh token for a new access token.
func (a *Adapter) Revalidate(ctx context.Context, account models.Account) (models.Account, error) {
	if account.RefreshToken == "" {
		return models.Account{}, errors.New("no refresh token stored")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tokenSource := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: account.RefreshToken})

	newToken, err := tokenSource.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			return models.Account{}, provider.Embedded(retrieveErr.ErrorCode, retrieveErr.ErrorDescription)
		}
		return models.Account{}, fmt.Errorf("refresh token: %w", err)
	}
	if code, ok := newToken.Extra("error").(string); ok && code != "" {
		description, _ := newToken.Extra("error_description").(string)
		return models.Account{}, provider.Embedded(code, description)
	}

	refreshed := account
	refreshed.AccessToken = newToken.AccessToken
	refreshed.ExpiresAt = newToken.Expiry
	// Persist rotated refresh token if provided (RFC 6749 compliance)
	if newToken.RefreshToken != "" && newToken.RefreshToken != account.RefreshToken {
		log.Printf("🔄 Rotating refresh token for: %s", account.Name)
		refreshed.RefreshToken = newToken.RefreshToken
	}
	return refreshed, nil
}
