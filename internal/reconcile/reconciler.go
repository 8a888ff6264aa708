// Package reconcile revalidates every stored account at startup and
// converges the account store, the selected-account pointer and the UI on
// a consistent state.
package reconcile

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/logging"
)

// Store is the persistence a reconciliation pass reads and writes.
type Store interface {
	ReadAllAccounts(ctx context.Context) ([]models.Account, error)
	ReadLauncherConfig(ctx context.Context) (*models.LauncherConfig, error)
	CreateLauncherConfig(ctx context.Context, cfg *models.LauncherConfig) error
	UpdateLauncherConfig(ctx context.Context, cfg *models.LauncherConfig) error
	UpdateAccount(ctx context.Context, account models.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// Options tunes a Reconciler.
type Options struct {
	// AdapterTimeout bounds each provider call. Zero means no bound; a
	// stalled provider then stalls the pass.
	AdapterTimeout time.Duration
}

// Result summarizes a finished pass.
type Result struct {
	PassID    string
	Screen    Screen
	Active    *models.Account // nil when Screen is ScreenLogin
	Refreshed []string        // ids revalidated successfully, in store order
	Evicted   []Eviction
}

// Reconciler runs reconciliation passes. A pass is strictly sequential;
// callers sharing the store must not run two passes at once.
type Reconciler struct {
	store   Store
	adapter provider.Adapter
	sinks   Sinks
	opts    Options
}

// New creates a Reconciler. adapter is usually a *provider.Registry.
func New(store Store, adapter provider.Adapter, sinks Sinks, opts Options) *Reconciler {
	return &Reconciler{
		store:   store,
		adapter: adapter,
		sinks:   sinks.withDefaults(),
		opts:    opts,
	}
}

// Run performs one reconciliation pass. Provider failures evict the
// affected account and never fail the pass; only store errors are returned.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	if logging.GetPassID(ctx) == "" {
		ctx = logging.WithPassID(ctx, logging.GeneratePassID())
	}

	r.sinks.Busy.Show()
	result, err := r.run(ctx)
	if err != nil {
		r.sinks.Busy.Close()
		log.Printf("%s❌ Account reconciliation aborted: %v", logging.Prefix(ctx), err)
		return nil, fmt.Errorf("reconcile accounts: %w", err)
	}
	return result, nil
}

func (r *Reconciler) run(ctx context.Context) (*Result, error) {
	accounts, err := r.store.ReadAllAccounts(ctx)
	if err != nil {
		return nil, err
	}
	sel, err := r.loadSelection(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{PassID: logging.GetPassID(ctx)}
	if len(accounts) == 0 {
		if sel.cfg.Selected() != "" {
			sel.cfg.Select("")
			if err := sel.commit(ctx, r.store); err != nil {
				return nil, err
			}
		}
		return r.finish(ctx, result, ScreenLogin), nil
	}

	log.Printf("%s🔄 Revalidating %d accounts", logging.Prefix(ctx), len(accounts))
	for _, account := range accounts {
		if err := r.reconcileAccount(ctx, account, sel, result); err != nil {
			return nil, err
		}
	}

	// Decide from what the store now holds, not from the working copies.
	survivors, err := r.store.ReadAllAccounts(ctx)
	if err != nil {
		return nil, err
	}
	sel, err = r.loadSelection(ctx)
	if err != nil {
		return nil, err
	}

	if len(survivors) == 0 {
		sel.cfg.Select("")
		if err := sel.commit(ctx, r.store); err != nil {
			return nil, err
		}
		return r.finish(ctx, result, ScreenLogin), nil
	}

	active := findAccount(survivors, sel.cfg.Selected())
	if active == nil {
		first := survivors[0]
		sel.cfg.Select(first.ID)
		if err := sel.commit(ctx, r.store); err != nil {
			return nil, err
		}
		log.Printf("%s✅ Selected %s as active account", logging.Prefix(ctx), first.Name)
		r.sinks.Accounts.AccountActivated(first)
		active = &first
	}
	result.Active = active

	return r.finish(ctx, result, ScreenHome), nil
}

func (r *Reconciler) reconcileAccount(ctx context.Context, account models.Account, sel *selection, result *Result) error {
	if account.Error {
		if err := r.evict(ctx, account, sel); err != nil {
			return err
		}
		result.Evicted = append(result.Evicted, Eviction{
			AccountID: account.ID,
			Name:      account.Name,
			Err:       &PreflightError{AccountID: account.ID, Message: account.ErrorMessage},
		})
		return nil
	}

	refreshed, err := r.revalidate(ctx, account)
	if err != nil {
		providerErr := provider.AsProviderError(account, err)
		if err := r.evict(ctx, account, sel); err != nil {
			return err
		}
		log.Printf("%s❌ [Account] %s: %s", logging.Prefix(ctx), account.Name, providerErr.Message)
		result.Evicted = append(result.Evicted, Eviction{
			AccountID: account.ID,
			Name:      account.Name,
			Err:       providerErr,
		})
		return nil
	}

	// Adapters are not trusted to keep the id.
	refreshed.ID = account.ID
	if err := r.store.UpdateAccount(ctx, refreshed); err != nil {
		return err
	}
	result.Refreshed = append(result.Refreshed, account.ID)
	r.sinks.Accounts.AccountRefreshed(refreshed)

	if account.ID == sel.cfg.Selected() {
		r.sinks.Accounts.AccountActivated(refreshed)
	}
	return nil
}

func (r *Reconciler) revalidate(ctx context.Context, account models.Account) (models.Account, error) {
	if r.opts.AdapterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.AdapterTimeout)
		defer cancel()
	}
	return r.adapter.Revalidate(ctx, account)
}

// evict deletes an account and clears the selection if it pointed there.
func (r *Reconciler) evict(ctx context.Context, account models.Account, sel *selection) error {
	if err := r.store.DeleteAccount(ctx, account.ID); err != nil {
		return err
	}
	if account.ID != "" && account.ID == sel.cfg.Selected() {
		sel.cfg.Select("")
		return sel.commit(ctx, r.store)
	}
	return nil
}

func (r *Reconciler) finish(ctx context.Context, result *Result, screen Screen) *Result {
	result.Screen = screen
	r.sinks.Busy.Close()
	r.sinks.Nav.Navigate(screen)
	log.Printf("%s📦 Reconciled accounts: %d kept, %d evicted, screen=%s",
		logging.Prefix(ctx), len(result.Refreshed), len(result.Evicted), screen)
	return result
}

func (r *Reconciler) loadSelection(ctx context.Context) (*selection, error) {
	cfg, err := r.store.ReadLauncherConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &selection{cfg: models.DefaultLauncherConfig()}, nil
	}
	return &selection{cfg: cfg, persisted: true}, nil
}

// selection is the LauncherConfig threaded through a pass. It is written
// back only at checkpoints: after an eviction that clears it, and once
// when the pass resolves the final selection.
type selection struct {
	cfg       *models.LauncherConfig
	persisted bool
}

func (s *selection) commit(ctx context.Context, store Store) error {
	if s.persisted {
		return store.UpdateLauncherConfig(ctx, s.cfg)
	}
	if err := store.CreateLauncherConfig(ctx, s.cfg); err != nil {
		return err
	}
	s.persisted = true
	return nil
}

func findAccount(accounts []models.Account, id string) *models.Account {
	if id == "" {
		return nil
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
