// Package logging carries a reconciliation pass ID through context so log
// lines from one startup pass can be grouped.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type contextKey string

const passIDKey contextKey = "reconcilePass"

// GeneratePassID returns a fresh pass ID: four random bytes, hex encoded.
func GeneratePassID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// WithPassID tags ctx so every log line of the pass carries passID.
func WithPassID(ctx context.Context, passID string) context.Context {
	return context.WithValue(ctx, passIDKey, passID)
}

// GetPassID returns the pass ID ctx was tagged with, or "" outside a pass.
func GetPassID(ctx context.Context) string {
	if id, ok := ctx.Value(passIDKey).(string); ok {
		return id
	}
	return ""
}

// Prefix formats the pass ID for a log line, e.g. "[pass 1a2b3c4d] ".
func Prefix(ctx context.Context) string {
	if id := GetPassID(ctx); id != "" {
		return "[pass " + id + "] "
	}
	return ""
}
