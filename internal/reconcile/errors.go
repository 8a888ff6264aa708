package reconcile

import "fmt"

// PreflightError marks an account evicted because an earlier process had
// already flagged it as broken. It is resolved silently.
type PreflightError struct {
	AccountID string
	Message   string
}

func (e *PreflightError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("account %s flagged before startup: %s", e.AccountID, e.Message)
	}
	return fmt.Sprintf("account %s flagged before startup", e.AccountID)
}

// Eviction records an account removed during a pass.
type Eviction struct {
	AccountID string
	Name      string
	Err       error // *PreflightError or *provider.ProviderError
}
