package core

// DecisionResult is what a pure decide function hands back to the librarian:
// the outcome, the event to journal, and for failures the business reason.
//
// Construct it only with SuccessDecision or FailureDecision.
type DecisionResult struct {
	Outcome Outcome
	Event   DomainEvent
	Reason  error
}

// SuccessDecision creates a DecisionResult for an attempt that changes state.
func SuccessDecision(outcome Outcome, event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: outcome,
		Event:   event,
	}
}

// FailureDecision creates a DecisionResult for an attempt that changes nothing.
// The failure event is journaled all the same.
func FailureDecision(outcome Outcome, event DomainEvent, reason error) DecisionResult {
	return DecisionResult{
		Outcome: outcome,
		Event:   event,
		Reason:  reason,
	}
}

// ChangesState reports whether the catalog and the ledger must be updated.
func (r DecisionResult) ChangesState() bool {
	return r.Outcome.ChangedState()
}
