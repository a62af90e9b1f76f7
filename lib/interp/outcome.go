package interp

// Outcome describes what a command did.
// It is a diagnostic value only; the protocol itself never reports it.
type Outcome uint8

const (
	OutcomeIgnored   Outcome = iota // empty line or unknown command
	OutcomeMalformed                // known command with missing or extra arguments
	OutcomeFound                    // get: record written
	OutcomeNotFound                 // get: "Nothing found" written
	OutcomeInserted                 // insert: record added
	OutcomeRemoved                  // remove: one record removed
	OutcomeNoMatch                  // remove: no record with that last name
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInserted:
		return "inserted"
	case OutcomeRemoved:
		return "removed"
	case OutcomeNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Command returns the protocol command that produced the outcome, or "" for OutcomeIgnored
// and OutcomeMalformed.
func (o Outcome) Command() string {
	switch o {
	case OutcomeFound, OutcomeNotFound:
		return CmdGet
	case OutcomeInserted:
		return CmdInsert
	case OutcomeRemoved, OutcomeNoMatch:
		return CmdRemove
	default:
		return ""
	}
}
