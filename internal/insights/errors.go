package insights

import "errors"

// MinTransactions is the smallest history worth sending for coaching.
const MinTransactions = 3

// Failure kinds returned by RequestInsight. Callers tell them apart with
// errors.Is.
var (
	ErrPrecondition = errors.New("insight needs at least 3 transactions")
	ErrRemote       = errors.New("insight request failed")
	ErrSchema       = errors.New("insight response does not match schema")
)
