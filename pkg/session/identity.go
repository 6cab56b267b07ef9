package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is the opaque session identity shared with the analysis backend.
// It lets the backend keep per-user exercise state across stateless
// requests.
type ID string

// NewID generates a session identity that is unique with overwhelming
// probability: a random component plus the creation timestamp in
// milliseconds. Generated once per client lifetime and immutable for
// the session's duration.
func NewID() ID {
	return ID(fmt.Sprintf("%s-%d", uuid.NewString(), time.Now().UnixMilli()))
}

func (id ID) String() string {
	return string(id)
}
