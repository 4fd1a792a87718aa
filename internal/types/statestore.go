package types

import "time"

// StateEntry is one row of the state store, including its metadata
// (spec §4.9). Value holds a string, int64, float64, []byte, or nil.
type StateEntry struct {
	SessionID string
	Key       string
	Value     any
	CreatedAt time.Time
	CreatedBy *string
	UpdatedAt time.Time
	UpdatedBy *string
}
