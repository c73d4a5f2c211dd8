// Package tuimsg holds messages shared by the TUI root model and its scenes.
package tuimsg

import (
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/schedule"
)

// MoveBillMsg asks the root model to move a bill to an adjacent paycheck.
type MoveBillMsg struct {
	InstanceID  string
	FromPayDate domain.Date
	Direction   schedule.Direction
}

// OverrideSavedMsg reports the result of persisting a move.
type OverrideSavedMsg struct {
	Move schedule.MoveResult
	Err  error
}

// StatusMsg shows a transient line in the status bar.
type StatusMsg struct {
	Text string
}
