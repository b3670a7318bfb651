package client

import (
	"sync"
	"time"
)

const (
	LevelInfo  = "info"
	LevelError = "error"
)

type Notification struct {
	Message string
	Level   string
	At      time.Time
}

// NotificationStore holds the single transient notification the UI
// shows; each new event replaces the previous one.
type NotificationStore struct {
	mu      sync.Mutex
	current *Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Show(message, level string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Notification{Message: message, Level: level, At: time.Now()}
}

// Current returns a copy of the active notification, or nil.
func (s *NotificationStore) Current() *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	n := *s.current
	return &n
}

func (s *NotificationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
