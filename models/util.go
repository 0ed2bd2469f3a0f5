package models

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a prefixed random identifier used for dashboard events
// and websocket subscribers.
// Example: GenerateID("event") -> "event:uuid-here"
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s:%s", prefix, uuid.NewString())
}
