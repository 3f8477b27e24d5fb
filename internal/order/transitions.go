package order

// transition describes the single legal source status and resulting status
// for an action. Cancel removes the order from the store instead of
// persisting StatusCancelled.
type transition struct {
	from Status
	to   Status
}

var transitions = map[Action]transition{
	ActionConfirm:        {from: StatusPending, to: StatusConfirmed},
	ActionCancel:         {from: StatusPending, to: StatusCancelled},
	ActionConfirmPayment: {from: StatusConfirmed, to: StatusPaymentPending},
}

// TransitionTarget returns the status an action leads to from the given
// status, or false when the action is not legal from there.
func TransitionTarget(current Status, action Action) (Status, bool) {
	t, ok := transitions[action]
	if !ok || t.from != current {
		return "", false
	}

	return t.to, true
}

var transitionRecorder = func(action Action, from, to Status) {}

// RegisterTransitionRecorder allows external packages to observe lifecycle transitions.
func RegisterTransitionRecorder(recorder func(action Action, from, to Status)) {
	if recorder == nil {
		transitionRecorder = func(Action, Status, Status) {}
		return
	}

	transitionRecorder = recorder
}
