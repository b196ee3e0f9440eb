package models

import "time"

// SweepReport summarises one age-and-reset pass over the collection.
type SweepReport struct {
	At    time.Time `json:"at"`
	Total int       `json:"total"`
	Aged  int       `json:"aged"`
	Reset int       `json:"reset"`
}

// Changed reports whether the sweep modified any account.
func (r SweepReport) Changed() bool {
	return r.Aged > 0 || r.Reset > 0
}

// Snapshot is the on-disk backup envelope.
type Snapshot struct {
	Version  int       `json:"version"`
	SavedAt  time.Time `json:"savedAt"`
	Accounts []Account `json:"accounts"`
}

const SnapshotVersion = 1
