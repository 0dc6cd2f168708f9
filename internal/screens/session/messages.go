package session

import (
	"time"

	sess "github.com/abhisek/quizmind/internal/session"
)

// stateMsg carries the result of a machine call that blocked on a
// question request.
type stateMsg struct {
	State sess.State
	Err   error
}

// timerTickMsg is sent every second to refresh the question timer.
type timerTickMsg time.Time
