package launcher

import (
	"testing"

	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
)

func TestState_TracksPass(t *testing.T) {
	s := &State{}

	s.Show()
	if !s.Snapshot().Busy {
		t.Fatal("expected busy after Show")
	}

	s.AccountRefreshed(models.Account{ID: "a", Name: "one"})
	s.AccountRefreshed(models.Account{ID: "b", Name: "two"})
	s.AccountRefreshed(models.Account{ID: "a", Name: "one-renamed"})
	s.AccountActivated(models.Account{ID: "b", Name: "two"})
	s.Close()
	s.Navigate(reconcile.ScreenHome)

	snap := s.Snapshot()
	if snap.Busy || snap.Screen != reconcile.ScreenHome {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Listed) != 2 || snap.Listed[0].Name != "one-renamed" || snap.Listed[1].ID != "b" {
		t.Fatalf("unexpected listed accounts: %+v", snap.Listed)
	}
	if snap.Active == nil || snap.Active.ID != "b" {
		t.Fatalf("expected b active, got %+v", snap.Active)
	}

	// A new pass starts from an empty list; login clears the active account.
	s.Show()
	s.Close()
	s.Navigate(reconcile.ScreenLogin)
	snap = s.Snapshot()
	if len(snap.Listed) != 0 || snap.Active != nil {
		t.Fatalf("expected cleared state, got %+v", snap)
	}
}

func TestState_SnapshotIsCopy(t *testing.T) {
	s := &State{}
	s.AccountRefreshed(models.Account{ID: "a"})
	s.AccountActivated(models.Account{ID: "a", Name: "orig"})

	snap := s.Snapshot()
	snap.Listed[0].ID = "mutated"
	snap.Active.Name = "mutated"

	again := s.Snapshot()
	if again.Listed[0].ID != "a" || again.Active.Name != "orig" {
		t.Fatalf("snapshot aliases internal state: %+v", again)
	}
}
