// Package analytics derives dashboard numbers and grouped views from a
// newest-first slice of transactions.
//
// Every function is pure: no I/O, no shared state, and an empty slice
// always yields zero values. Money is summed with shopspring/decimal so
// that totals do not drift with float accumulation; results are handed
// back as float64 because that is what the persisted records carry.
package analytics
