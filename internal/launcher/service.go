// Package launcher hosts the account reconciler for the desktop shell: it
// owns the UI state the reconciler reports to and exposes it over HTTP.
package launcher

import (
	"context"
	"sync"
	"time"

	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db"
	"github.com/pysugar/launcher-accounts/internal/logging"
	"github.com/pysugar/launcher-accounts/internal/monitor"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
)

// Service serializes reconciliation passes and account writes against one
// store.
type Service struct {
	store      *db.Store
	state      *State
	reconciler *reconcile.Reconciler
	monitor    *monitor.PassMonitor // optional pass history
	apiKey     string

	mu   sync.Mutex // held for a whole pass
	last *reconcile.Result
}

// NewService wires a reconciler that reports into a fresh State.
func NewService(store *db.Store, adapter provider.Adapter, opts reconcile.Options) *Service {
	state := &State{}
	return &Service{
		store: store,
		state: state,
		reconciler: reconcile.New(store, adapter, reconcile.Sinks{
			Busy:     state,
			Nav:      state,
			Accounts: state,
		}, opts),
	}
}

// WithMonitor records every pass in pm.
func (s *Service) WithMonitor(pm *monitor.PassMonitor) *Service {
	s.monitor = pm
	return s
}

// WithAPIKey requires key on the API routes that change state.
func (s *Service) WithAPIKey(key string) *Service {
	s.apiKey = key
	return s
}

// Reconcile runs one pass. Concurrent callers wait for the running pass.
func (s *Service) Reconcile(ctx context.Context) (*reconcile.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	passID := logging.GeneratePassID()
	started := time.Now()
	result, err := s.reconciler.Run(logging.WithPassID(ctx, passID))
	if s.monitor != nil {
		s.monitor.Record(monitor.Entry(passID, started, result, err))
	}
	if err != nil {
		return nil, err
	}
	s.last = result
	return result, nil
}

// LastResult returns the most recent successful pass, or nil.
func (s *Service) LastResult() *reconcile.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Monitor returns the pass history, or nil when none is attached.
func (s *Service) Monitor() *monitor.PassMonitor {
	return s.monitor
}

// State returns the UI state fed by the reconciler.
func (s *Service) State() *State {
	return s.state
}

func (s *Service) withStore(fn func(*db.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}
