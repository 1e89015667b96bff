// Package notify is the in-process notification channel for the console.
// Cards push success/error toasts here; the console renders the latest one.
// The center is passed around as an explicit dependency, never a global.
package notify

import (
	"sync"
	"time"
)

// Level classifies a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
)

// Notification is one toast entry.
type Notification struct {
	Level   Level
	Message string
	Time    time.Time
}

// Center keeps a bounded feed of recent notifications.
type Center struct {
	mu      sync.Mutex
	entries []Notification
	limit   int
}

// NewCenter creates a center keeping at most limit entries.
func NewCenter(limit int) *Center {
	if limit <= 0 {
		limit = 50
	}
	return &Center{limit: limit}
}

func (c *Center) push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Notification{Level: level, Message: message, Time: time.Now()})
	if len(c.entries) > c.limit {
		c.entries = c.entries[len(c.entries)-c.limit:]
	}
}

// Success records a success toast. The fallback is used when the server
// supplied no message of its own.
func (c *Center) Success(message, fallback string) {
	if message == "" {
		message = fallback
	}
	c.push(LevelSuccess, message)
}

// Error records an error toast, preferring the server-supplied message.
func (c *Center) Error(message, fallback string) {
	if message == "" {
		message = fallback
	}
	c.push(LevelError, message)
}

// Info records an informational toast.
func (c *Center) Info(message string) {
	c.push(LevelInfo, message)
}

// Latest returns the most recent notification, if any.
func (c *Center) Latest() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return Notification{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// Recent returns up to n notifications, newest last.
func (c *Center) Recent(n int) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || n > len(c.entries) {
		n = len(c.entries)
	}
	out := make([]Notification, n)
	copy(out, c.entries[len(c.entries)-n:])
	return out
}
