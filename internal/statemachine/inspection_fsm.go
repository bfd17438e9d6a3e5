package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/agent-portal-api/internal/models"
)

// Inspection lifecycle events
const (
	EventComplete   = "complete"
	EventCancel     = "cancel"
	EventReschedule = "reschedule"
	EventReopen     = "reopen"
)

// InspectionFSM wraps an inspection with its state machine
type InspectionFSM struct {
	inspection *models.Inspection
	fsm        *fsm.FSM
}

// NewInspectionFSM creates a new inspection state machine
func NewInspectionFSM(inspection *models.Inspection) *InspectionFSM {
	ifsm := &InspectionFSM{
		inspection: inspection,
	}

	current := inspection.Status
	if current == "" {
		current = models.InspectionStatusScheduled
	}

	ifsm.fsm = fsm.NewFSM(
		current,
		fsm.Events{
			// scheduled → completed
			{Name: EventComplete, Src: []string{models.InspectionStatusScheduled}, Dst: models.InspectionStatusCompleted},

			// scheduled → canceled
			{Name: EventCancel, Src: []string{models.InspectionStatusScheduled}, Dst: models.InspectionStatusCanceled},

			// canceled → scheduled
			{Name: EventReschedule, Src: []string{models.InspectionStatusCanceled}, Dst: models.InspectionStatusScheduled},

			// completed → scheduled
			{Name: EventReopen, Src: []string{models.InspectionStatusCompleted}, Dst: models.InspectionStatusScheduled},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// eventFor returns the event that moves an inspection from src to dst.
func eventFor(src, dst string) (string, bool) {
	switch {
	case src == models.InspectionStatusScheduled && dst == models.InspectionStatusCompleted:
		return EventComplete, true
	case src == models.InspectionStatusScheduled && dst == models.InspectionStatusCanceled:
		return EventCancel, true
	case src == models.InspectionStatusCanceled && dst == models.InspectionStatusScheduled:
		return EventReschedule, true
	case src == models.InspectionStatusCompleted && dst == models.InspectionStatusScheduled:
		return EventReopen, true
	}
	return "", false
}

// TransitionTo moves the inspection to status. Setting the current status is a no-op.
func (i *InspectionFSM) TransitionTo(ctx context.Context, status string) error {
	if status == i.fsm.Current() {
		return nil
	}

	event, ok := eventFor(i.fsm.Current(), status)
	if !ok {
		return fmt.Errorf("inspection cannot move from %s to %s", i.fsm.Current(), status)
	}

	if err := i.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s inspection: %w", event, err)
	}

	i.inspection.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InspectionFSM) Current() string {
	return i.fsm.Current()
}

// Can checks if a transition is possible
func (i *InspectionFSM) Can(event string) bool {
	return i.fsm.Can(event)
}

// CanTransition reports whether status is reachable from the current state.
func (i *InspectionFSM) CanTransition(status string) bool {
	if status == i.fsm.Current() {
		return true
	}
	event, ok := eventFor(i.fsm.Current(), status)
	return ok && i.fsm.Can(event)
}
