package launcher

import (
	"sync"

	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
)

// State is the UI-facing view of the launcher: the visible screen, the busy
// indicator, the listed accounts and the active one. It implements the
// reconcile sinks.
type State struct {
	mu     sync.RWMutex
	screen reconcile.Screen
	busy   bool
	listed []models.Account
	active *models.Account
}

// Snapshot is a copy of State at one point in time.
type Snapshot struct {
	Screen reconcile.Screen
	Busy   bool
	Listed []models.Account
	Active *models.Account
}

var (
	_ reconcile.Indicator   = (*State)(nil)
	_ reconcile.Navigator   = (*State)(nil)
	_ reconcile.AccountSink = (*State)(nil)
)

// Show marks the state busy and clears the account list for a new pass.
func (s *State) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = true
	s.listed = nil
}

func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *State) Navigate(screen reconcile.Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = screen
	if screen == reconcile.ScreenLogin {
		s.active = nil
	}
}

// AccountRefreshed adds the account to the list, replacing an entry with
// the same id.
func (s *State) AccountRefreshed(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listed {
		if s.listed[i].ID == account.ID {
			s.listed[i] = account
			return
		}
	}
	s.listed = append(s.listed, account)
}

func (s *State) AccountActivated(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = &account
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Screen: s.screen,
		Busy:   s.busy,
		Listed: append([]models.Account(nil), s.listed...),
	}
	if s.active != nil {
		active := *s.active
		snap.Active = &active
	}
	return snap
}
