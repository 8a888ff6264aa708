// Package azauth verifies accounts issued by an AZauth token server.
package azauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db/models"
)

// Adapter verifies and refreshes AZauth sessions.
type Adapter struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an adapter for the AZauth server at baseURL.
func New(baseURL string, client *http.Client) *Adapter {
	if client == nil {
		client = provider.NewHTTPClient()
	}
	return &Adapter{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: client,
	}
}

type verifyRequest struct {
	AccessToken string `json:"access_token"`
}

type verifyResponse struct {
	// failure shape
	Status  string          `json:"status"`
	Reason  string          `json:"reason"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`

	// success shape
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	UUID        string          `json:"uuid"`
	AccessToken string          `json:"access_token"`
	Email       string          `json:"email"`
	Role        json.RawMessage `json:"role"`
	Banned      bool            `json:"banned"`
}

type meta struct {
	UID   int64           `json:"uid,omitempty"`
	Email string          `json:"email,omitempty"`
	Role  json.RawMessage `json:"role,omitempty"`
}

// Revalidate calls the server's verify endpoint with the stored token.
func (a *Adapter) Revalidate(ctx context.Context, account models.Account) (models.Account, error) {
	if a.baseURL == "" {
		return models.Account{}, errors.New("token auth server url is not configured")
	}
	if account.AccessToken == "" {
		return models.Account{}, errors.New("no access token stored")
	}

	status, body, err := provider.PostJSON(ctx, a.httpClient, a.baseURL+"/api/auth/verify", verifyRequest{AccessToken: account.AccessToken})
	if err != nil {
		return models.Account{}, err
	}

	var resp verifyResponse
	decodeErr := json.Unmarshal(body, &resp)
	if decodeErr == nil && resp.failed() {
		return models.Account{}, provider.Embedded(resp.Reason, resp.Message)
	}
	if status < 200 || status > 299 {
		return models.Account{}, provider.StatusError(status, body)
	}
	if decodeErr != nil {
		return models.Account{}, fmt.Errorf("decode verify response: %w", decodeErr)
	}
	if resp.AccessToken == "" {
		return models.Account{}, errors.New("verify response missing access_token")
	}

	refreshed := account
	refreshed.AccessToken = resp.AccessToken
	refreshed.ClientToken = resp.AccessToken
	if resp.Username != "" {
		refreshed.Name = resp.Username
	}
	if resp.UUID != "" {
		refreshed.UUID = resp.UUID
	}
	extras, _ := json.Marshal(meta{UID: resp.ID, Email: resp.Email, Role: resp.Role})
	refreshed.Meta = string(extras)
	return refreshed, nil
}

func (r verifyResponse) failed() bool {
	if strings.EqualFold(r.Status, "error") {
		return true
	}
	switch strings.TrimSpace(string(r.Error)) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}
