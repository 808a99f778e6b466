package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewHex returns 2*n lowercase hex characters of crypto/rand entropy.
func NewHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewID32 returns exactly 32 hex characters (no separators/prefixes). Used
// for in-flight lock tokens.
func NewID32() string { return NewHex(16) }

// NewAlertID names one flash alert on the page.
func NewAlertID() string { return "alert-" + NewHex(6) }
