package models

import "time"

// Config is a key/value document. The launcher configuration singleton is
// stored here as JSON under LauncherConfigKey.
type Config struct {
	Key       string `gorm:"primaryKey"` // Config key name
	Value     string // JSON document
	CreatedAt time.Time
	UpdatedAt time.Time
}
