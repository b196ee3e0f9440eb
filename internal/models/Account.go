package models

import "time"

type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	IsUsed       bool       `json:"isUsed"`
	LastUsedDate *time.Time `json:"lastUsedDate"`
	CreatedDate  time.Time  `json:"createdDate"`
	IsOldAccount bool       `json:"isOldAccount"`
}

// NewAccount returns a fresh, unused, new account created at now.
func NewAccount(id, name string, now time.Time) Account {
	return Account{
		ID:          id,
		Name:        name,
		CreatedDate: now,
	}
}

// Clone returns a copy that shares no pointers with a.
func (a Account) Clone() Account {
	if a.LastUsedDate != nil {
		t := *a.LastUsedDate
		a.LastUsedDate = &t
	}
	return a
}

// Equal reports structural equality, comparing instants rather than time.Time internals.
func (a Account) Equal(b Account) bool {
	if a.ID != b.ID || a.Name != b.Name || a.IsUsed != b.IsUsed || a.IsOldAccount != b.IsOldAccount {
		return false
	}
	if !a.CreatedDate.Equal(b.CreatedDate) {
		return false
	}
	switch {
	case a.LastUsedDate == nil && b.LastUsedDate == nil:
		return true
	case a.LastUsedDate == nil || b.LastUsedDate == nil:
		return false
	default:
		return a.LastUsedDate.Equal(*b.LastUsedDate)
	}
}

// Normalize clears a last-used date left on an unused record.
func (a Account) Normalize() Account {
	if !a.IsUsed {
		a.LastUsedDate = nil
	}
	return a
}

// MarkUsed sets the usage flag and stamps the last-used date.
func (a *Account) MarkUsed(at time.Time) {
	a.IsUsed = true
	a.LastUsedDate = &at
}

// MarkUnused clears the usage flag together with the last-used date.
func (a *Account) MarkUnused() {
	a.IsUsed = false
	a.LastUsedDate = nil
}
