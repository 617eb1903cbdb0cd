package model

// ValidationError rejects a stage invocation whose preconditions do not
// hold, e.g. distributing for a bidder that is not an aggregator or bidding
// on a finished tender. It is never retried by the core.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }
