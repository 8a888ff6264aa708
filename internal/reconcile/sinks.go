package reconcile

import "github.com/pysugar/launcher-accounts/internal/db/models"

// Screen is a navigation target for the launcher UI.
type Screen string

const (
	ScreenLogin Screen = "login"
	ScreenHome  Screen = "home"
)

// Indicator is the "refreshing accounts" busy display.
type Indicator interface {
	Show()
	Close()
}

// Navigator switches the visible screen.
type Navigator interface {
	Navigate(screen Screen)
}

// AccountSink receives account-level UI updates.
type AccountSink interface {
	// AccountRefreshed lists a revalidated account.
	AccountRefreshed(account models.Account)
	// AccountActivated marks an account as the active one.
	AccountActivated(account models.Account)
}

// Sinks groups the UI collaborators. Nil members are ignored.
type Sinks struct {
	Busy     Indicator
	Nav      Navigator
	Accounts AccountSink
}

type noopSink struct{}

func (noopSink) Show()                           {}
func (noopSink) Close()                          {}
func (noopSink) Navigate(Screen)                 {}
func (noopSink) AccountRefreshed(models.Account) {}
func (noopSink) AccountActivated(models.Account) {}

func (s Sinks) withDefaults() Sinks {
	if s.Busy == nil {
		s.Busy = noopSink{}
	}
	if s.Nav == nil {
		s.Nav = noopSink{}
	}
	if s.Accounts == nil {
		s.Accounts = noopSink{}
	}
	return s
}
