package launcher

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/launcher-accounts/internal/db"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
	"github.com/pysugar/launcher-accounts/internal/version"
)

// AccountView is the API representation of an account. Tokens are masked.
type AccountView struct {
	ID          string             `json:"id"`
	Type        models.AccountType `json:"type"`
	Name        string             `json:"name"`
	UUID        string             `json:"uuid"`
	Online      bool               `json:"online"`
	AccessToken string             `json:"access_token"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Error       bool               `json:"error"`
	Managed     bool               `json:"managed"` // false: kept as-is by every pass
}

func newAccountView(acc models.Account) AccountView {
	return AccountView{
		ID:          acc.ID,
		Type:        acc.Type,
		Name:        acc.Name,
		UUID:        acc.UUID,
		Online:      acc.Online,
		AccessToken: maskToken(acc.AccessToken),
		ExpiresAt:   acc.ExpiresAt,
		Error:       acc.Error,
		Managed:     acc.Type.Known(),
	}
}

func maskToken(t string) string {
	if len(t) < 20 {
		return strings.Repeat("*", len(t))
	}
	return "..." + t[len(t)-8:]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StateHandler handles GET /api/state
func StateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.State().Snapshot()

		listed := make([]AccountView, 0, len(snap.Listed))
		for _, acc := range snap.Listed {
			listed = append(listed, newAccountView(acc))
		}
		var active *AccountView
		if snap.Active != nil {
			view := newAccountView(*snap.Active)
			active = &view
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"screen":   snap.Screen,
			"busy":     snap.Busy,
			"active":   active,
			"accounts": listed,
		})
	}
}

// AccountsHandler handles GET /api/accounts
func AccountsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var accounts []models.Account
		err := svc.withStore(func(store *db.Store) error {
			var err error
			accounts, err = store.ReadAllAccounts(r.Context())
			return err
		})
		if err != nil {
			http.Error(w, "Failed to read accounts", http.StatusInternalServerError)
			return
		}

		views := make([]AccountView, 0, len(accounts))
		for _, acc := range accounts {
			views = append(views, newAccountView(acc))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accounts": views,
			"count":    len(views),
		})
	}
}

// CreateAccountHandler handles POST /api/accounts. It stores an account
// produced by an external sign-in flow; the next pass revalidates it.
func CreateAccountHandler(svc *Service) http.HandlerFunc {
	type request struct {
		ID           string             `json:"id"`
		Type         models.AccountType `json:"type"`
		Name         string             `json:"name"`
		UUID         string             `json:"uuid"`
		Online       bool               `json:"online"`
		AccessToken  string             `json:"access_token"`
		ClientToken  string             `json:"client_token"`
		RefreshToken string             `json:"refresh_token"`
		ExpiresAt    time.Time          `json:"expires_at"`
		Meta         json.RawMessage    `json:"meta"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" || req.Type == "" {
			http.Error(w, "name and type are required", http.StatusUnprocessableEntity)
			return
		}

		account := models.Account{
			ID:           strings.TrimSpace(req.ID),
			Type:         req.Type,
			Name:         strings.TrimSpace(req.Name),
			UUID:         req.UUID,
			Online:       req.Online,
			AccessToken:  req.AccessToken,
			ClientToken:  req.ClientToken,
			RefreshToken: req.RefreshToken,
			ExpiresAt:    req.ExpiresAt,
			Meta:         string(req.Meta),
		}
		if account.ID == "" {
			account.ID = uuid.New().String()
		}

		err := svc.withStore(func(store *db.Store) error {
			existing, err := store.ReadAccount(r.Context(), account.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return errAccountExists
			}
			return store.CreateAccount(r.Context(), &account)
		})
		if errors.Is(err, errAccountExists) {
			http.Error(w, "Account already exists", http.StatusConflict)
			return
		}
		if err != nil {
			log.Printf("❌ Failed to store account %s: %v", account.Name, err)
			http.Error(w, "Failed to store account", http.StatusInternalServerError)
			return
		}

		if !account.Type.Known() {
			log.Printf("⚠️ No provider for account type %q; %s will not be revalidated", account.Type, account.Name)
		}
		log.Printf("✅ Stored %s account: %s", account.Type, account.Name)
		writeJSON(w, http.StatusCreated, newAccountView(account))
	}
}

var errAccountExists = errors.New("account already exists")

// EvictionView describes an account removed by a pass.
type EvictionView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ReconcileHandler handles POST /api/reconcile
func ReconcileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Reconcile(r.Context())
		if err != nil {
			http.Error(w, "Reconciliation failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, resultView(result))
	}
}

func resultView(result *reconcile.Result) map[string]interface{} {
	evicted := make([]EvictionView, 0, len(result.Evicted))
	for _, ev := range result.Evicted {
		evicted = append(evicted, EvictionView{ID: ev.AccountID, Name: ev.Name, Reason: ev.Err.Error()})
	}
	var active *AccountView
	if result.Active != nil {
		view := newAccountView(*result.Active)
		active = &view
	}
	refreshed := result.Refreshed
	if refreshed == nil {
		refreshed = []string{}
	}
	return map[string]interface{}{
		"pass_id":   result.PassID,
		"screen":    result.Screen,
		"active":    active,
		"refreshed": refreshed,
		"evicted":   evicted,
	}
}

// VersionHandler returns version information as JSON
// GET /api/version
func VersionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    version.Version,
			"commit":     version.Commit,
			"build_time": version.BuildTime,
		})
	}
}
