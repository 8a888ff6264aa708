// Package mojang handles simple-login accounts: offline identities derived
// from the player name, and legacy online sessions refreshed against a
// Yggdrasil-style auth server.
package mojang

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db/models"
)

// DefaultAuthServer is used when no auth server is configured.
const DefaultAuthServer = "https://authserver.mojang.com"

// Adapter revalidates simple-login accounts.
type Adapter struct {
	authServer string
	httpClient *http.Client
}

// New creates an adapter. An empty authServer selects DefaultAuthServer.
func New(authServer string, client *http.Client) *Adapter {
	authServer = strings.TrimRight(strings.TrimSpace(authServer), "/")
	if authServer == "" {
		authServer = DefaultAuthServer
	}
	if client == nil {
		client = provider.NewHTTPClient()
	}
	return &Adapter{authServer: authServer, httpClient: client}
}

// Revalidate re-derives offline accounts and refreshes online ones.
func (a *Adapter) Revalidate(ctx context.Context, account models.Account) (models.Account, error) {
	if !account.Online {
		return Offline(account)
	}
	return a.refresh(ctx, account)
}

// OfflineUUID returns the deterministic offline id for a player name.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	id, _ := uuid.FromBytes(sum[:])
	return id
}

// Offline rebuilds an offline identity from the account's display name.
func Offline(account models.Account) (models.Account, error) {
	name := strings.TrimSpace(account.Name)
	if name == "" {
		return models.Account{}, errors.New("offline account has no name")
	}

	id := OfflineUUID(name)
	refreshed := account
	refreshed.Name = name
	refreshed.UUID = strings.ReplaceAll(id.String(), "-", "")
	refreshed.AccessToken = refreshed.UUID
	if refreshed.ClientToken == "" {
		refreshed.ClientToken = uuid.NewString()
	}
	refreshed.Online = false
	return refreshed, nil
}

type refreshRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
	RequestUser bool   `json:"requestUser"`
}

type refreshResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	Cause        string `json:"cause"`

	AccessToken     string `json:"accessToken"`
	ClientToken     string `json:"clientToken"`
	SelectedProfile *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"selectedProfile"`
	User json.RawMessage `json:"user"`
}

func (a *Adapter) refresh(ctx context.Context, account models.Account) (models.Account, error) {
	if account.AccessToken == "" {
		return models.Account{}, errors.New("no access token stored")
	}

	status, body, err := provider.PostJSON(ctx, a.httpClient, a.authServer+"/refresh", refreshRequest{
		AccessToken: account.AccessToken,
		ClientToken: account.ClientToken,
		RequestUser: true,
	})
	if err != nil {
		return models.Account{}, err
	}

	var resp refreshResponse
	decodeErr := json.Unmarshal(body, &resp)
	if decodeErr == nil && (resp.Error != "" || resp.ErrorMessage != "") {
		return models.Account{}, provider.Embedded(resp.Error, resp.ErrorMessage)
	}
	if status < 200 || status > 299 {
		return models.Account{}, provider.StatusError(status, body)
	}
	if decodeErr != nil {
		return models.Account{}, fmt.Errorf("decode refresh response: %w", decodeErr)
	}
	if resp.AccessToken == "" {
		return models.Account{}, errors.New("refresh response missing accessToken")
	}

	refreshed := account
	refreshed.AccessToken = resp.AccessToken
	if resp.ClientToken != "" {
		refreshed.ClientToken = resp.ClientToken
	}
	if resp.SelectedProfile != nil {
		refreshed.UUID = resp.SelectedProfile.ID
		if resp.SelectedProfile.Name != "" {
			refreshed.Name = resp.SelectedProfile.Name
		}
	}
	if len(resp.User) > 0 && string(resp.User) != "null" {
		refreshed.Meta = string(resp.User)
	}
	return refreshed, nil
}
