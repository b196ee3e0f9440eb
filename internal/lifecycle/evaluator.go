// Package lifecycle holds the account aging, auto-reset and toggle rules.
// Every function here is pure: inputs are never mutated and the current time is passed in.
package lifecycle

import (
	"time"

	"acctrack/internal/models"
)

const Day = 24 * time.Hour

const (
	DefaultAgingDays = 14
	DefaultResetDays = 30
)

type Transition int

const (
	TransitionNone Transition = iota
	TransitionAged
	TransitionReset
)

func (t Transition) String() string {
	switch t {
	case TransitionAged:
		return "aged"
	case TransitionReset:
		return "reset"
	default:
		return "none"
	}
}

// Policy carries the dwell thresholds in whole days.
type Policy struct {
	AgingDays int
	ResetDays int
}

var DefaultPolicy = Policy{AgingDays: DefaultAgingDays, ResetDays: DefaultResetDays}

// NewPolicy falls back to the defaults for non-positive thresholds.
func NewPolicy(agingDays, resetDays int) Policy {
	p := DefaultPolicy
	if agingDays > 0 {
		p.AgingDays = agingDays
	}
	if resetDays > 0 {
		p.ResetDays = resetDays
	}
	return p
}

// DaysBetween returns the whole days elapsed from from to to, floored.
// 23h59m counts as 0 days.
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := d / Day
	if d < 0 && d%Day != 0 {
		days--
	}
	return int(days)
}

// SweepOne applies the aging rule, or failing that the reset rule, to a single account.
func (p Policy) SweepOne(a models.Account, now time.Time) (models.Account, Transition) {
	out := a.Clone()
	if !out.IsOldAccount {
		if DaysBetween(out.CreatedDate, now) >= p.AgingDays {
			out.IsOldAccount = true
			return out, TransitionAged
		}
		return out, TransitionNone
	}
	if out.IsUsed && out.LastUsedDate != nil && DaysBetween(*out.LastUsedDate, now) >= p.ResetDays {
		out.MarkUnused()
		return out, TransitionReset
	}
	return out, TransitionNone
}

// Sweep evaluates every account independently and returns a new slice in the same order,
// together with the indexes of the accounts that changed.
func (p Policy) Sweep(accounts []models.Account, now time.Time) ([]models.Account, []int) {
	out, changed, _ := p.Report(accounts, now)
	return out, changed
}

// Report sweeps accounts and counts the transitions.
func (p Policy) Report(accounts []models.Account, now time.Time) ([]models.Account, []int, models.SweepReport) {
	report := models.SweepReport{At: now, Total: len(accounts)}
	out := make([]models.Account, len(accounts))
	var changed []int
	for i, a := range accounts {
		next, tr := p.SweepOne(a, now)
		out[i] = next
		switch tr {
		case TransitionAged:
			report.Aged++
		case TransitionReset:
			report.Reset++
		default:
			continue
		}
		changed = append(changed, i)
	}
	return out, changed, report
}

// CanToggle reports whether the account may switch between used and unused.
func (p Policy) CanToggle(a models.Account, now time.Time) bool {
	return a.IsOldAccount || DaysBetween(a.CreatedDate, now) >= p.AgingDays
}

// Toggle flips the usage flag when the account is eligible. An ineligible account is
// returned unchanged with false.
func (p Policy) Toggle(a models.Account, now time.Time) (models.Account, bool) {
	out := a.Clone()
	if !p.CanToggle(out, now) {
		return out, false
	}
	if out.IsUsed {
		out.MarkUnused()
	} else {
		out.MarkUsed(now)
	}
	return out, true
}

// DaysUntilEligible is zero for accounts that can already be toggled.
func (p Policy) DaysUntilEligible(a models.Account, now time.Time) int {
	if p.CanToggle(a, now) {
		return 0
	}
	return p.AgingDays - DaysBetween(a.CreatedDate, now)
}

// DaysUntilReset is defined only for old accounts currently in use.
func (p Policy) DaysUntilReset(a models.Account, now time.Time) (int, bool) {
	if !a.IsOldAccount || !a.IsUsed || a.LastUsedDate == nil {
		return 0, false
	}
	return p.ResetDays - DaysBetween(*a.LastUsedDate, now), true
}

func (p Policy) View(a models.Account, now time.Time) models.AccountView {
	v := models.AccountView{
		Account:           a.Clone(),
		CanUse:            p.CanToggle(a, now),
		DaysUntilEligible: p.DaysUntilEligible(a, now),
	}
	if days, ok := p.DaysUntilReset(a, now); ok {
		v.DaysUntilReset = &days
	}
	return v
}
