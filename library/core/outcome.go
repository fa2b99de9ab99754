package core

// Outcome is the observable result of an issue or return attempt.
// Business failures are outcomes, not errors.
type Outcome uint8

const (
	// OutcomeUndecided is the zero value, returned together with an error.
	OutcomeUndecided Outcome = iota

	// Issued means an available copy was marked unavailable and recorded in the ledger.
	Issued

	// Returned means the book was marked available again and its ledger record removed.
	Returned

	// Unavailable means the title matched, but every matching copy is already issued.
	Unavailable

	// NotFound means no catalog entry matched the title.
	NotFound

	// NotIssued means the book exists but has no active loan to this reader.
	NotIssued
)

func (o Outcome) String() string {
	switch o {
	case Issued:
		return "issued"
	case Returned:
		return "returned"
	case Unavailable:
		return "unavailable"
	case NotFound:
		return "not_found"
	case NotIssued:
		return "not_issued"
	default:
		return "undecided"
	}
}

// ChangedState reports whether the catalog and the ledger were mutated.
func (o Outcome) ChangedState() bool {
	return o == Issued || o == Returned
}

// OutcomeFromString is the inverse of Outcome.String, used when reading failure events back.
func OutcomeFromString(s string) Outcome {
	for _, o := range []Outcome{Issued, Returned, Unavailable, NotFound, NotIssued} {
		if o.String() == s {
			return o
		}
	}

	return OutcomeUndecided
}
