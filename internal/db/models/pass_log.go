package models

// PassLog records the outcome of one reconciliation pass.
type PassLog struct {
	ID        string `gorm:"primaryKey" json:"id"` // pass id
	Timestamp int64  `gorm:"index" json:"timestamp"`
	Duration  int64  `json:"duration"` // milliseconds
	Screen    string `gorm:"index" json:"screen,omitempty"`
	ActiveID  string `json:"active_id,omitempty"`
	Refreshed int    `json:"refreshed"`
	Evicted   int    `json:"evicted"`
	Evictions string `gorm:"type:text" json:"evictions,omitempty"` // one "name: reason" per line
	Error     string `json:"error,omitempty"`
}

// PassStats holds aggregated statistics for pass logs.
type PassStats struct {
	TotalPasses     int64 `json:"total_passes"`
	FailedPasses    int64 `json:"failed_passes"`
	EvictedAccounts int64 `json:"evicted_accounts"`
}
