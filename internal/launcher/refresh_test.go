package launcher

import (
	"context"
	"testing"
	"time"
)

func TestStartRefreshLoop_RunsPasses(t *testing.T) {
	svc := newMonitoredService(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.StartRefreshLoop(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for svc.Monitor().Stats().TotalPasses < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected scheduled passes, got %+v", svc.Monitor().Stats())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if svc.LastResult() == nil {
		t.Fatal("expected a recorded result")
	}
}

func TestStartRefreshLoop_DisabledInterval(t *testing.T) {
	svc := newMonitoredService(t, "")
	svc.StartRefreshLoop(context.Background(), 0)

	time.Sleep(20 * time.Millisecond)
	if got := svc.Monitor().Stats().TotalPasses; got != 0 {
		t.Fatalf("expected no passes, got %d", got)
	}
}
