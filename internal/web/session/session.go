// Package session stores the logged-in user of each browser session in a
// pluggable storage backend.
package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// storage is the process-wide session storage backend.
var storage fiber.Storage

// Data represents the session data structure.
type Data struct {
	User models.User
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := storage.Get(sessionID)
	if err != nil {
		return err
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session with the given ID from the store.
func Delete(sessionID string) error {
	return storage.Delete(sessionID)
}

// Init initializes the session store with the provided storage backend.
func Init(s fiber.Storage) {
	if s == nil {
		panic("storage is nil")
	}

	storage = s
}

// GenerateSessionID generates a new random session ID.
func GenerateSessionID() string {
	return uuid.NewString()
}
