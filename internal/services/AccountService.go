package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"acctrack/internal/errs"
	"acctrack/internal/lifecycle"
	"acctrack/internal/models"
	"acctrack/internal/providers"
	"acctrack/internal/storage/interfaces"
	"acctrack/internal/structures"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"go.uber.org/atomic"
)

const (
	GroupAll = "all"
	GroupOld = "old"
	GroupNew = "new"
)

const (
	ToggleUsed     = "used"
	ToggleUnused   = "unused"
	ToggleRejected = "rejected"
)

// errNoChange aborts a Modify without writing.
var errNoChange = errors.New("no change")

type AccountServiceInterface interface {
	List(ctx context.Context, group string) ([]models.AccountView, error)
	Get(ctx context.Context, id string) (models.AccountView, error)
	Create(ctx context.Context, name string) (models.AccountView, error)
	Toggle(ctx context.Context, id string) (models.ToggleResponse, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, accounts []models.Account) error
	Sweep(ctx context.Context) (models.SweepReport, error)
	Snapshot(ctx context.Context) ([]models.Account, error)
	Restore(ctx context.Context, accounts []models.Account) (bool, error)
	LastSweep() models.SweepReport
	Subscribe(fn func())
}

type AccountService struct {
	store   interfaces.AccountStoreInterface
	policy  lifecycle.Policy
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
	newID   func() string

	subMu       sync.RWMutex
	subscribers []func()

	lastSweepAt atomic.Time
	lastTotal   atomic.Int64
	lastAged    atomic.Int64
	lastReset   atomic.Int64
}

func NewAccountService(conf *structures.Config, logger providers.Logger, store interfaces.AccountStoreInterface, metrics providers.MetricsProviderInterface) AccountServiceInterface {
	return &AccountService{
		store:   store,
		policy:  lifecycle.NewPolicy(conf.Lifecycle.AgingDays, conf.Lifecycle.ResetDays),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func validGroup(group string) bool {
	switch group {
	case "", GroupAll, GroupOld, GroupNew:
		return true
	}
	return false
}

func inGroup(a models.Account, group string) bool {
	switch group {
	case GroupOld:
		return a.IsOldAccount
	case GroupNew:
		return !a.IsOldAccount
	default:
		return true
	}
}

// sweepAll loads the collection and applies the lifecycle rules. Each record
// that needs a transition is re-evaluated and written inside its own Modify so
// a toggle committed after the load is never overwritten.
func (s *AccountService) sweepAll(ctx context.Context) ([]models.Account, models.SweepReport, error) {
	accounts, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Unable to load accounts: %s", err)
		return nil, models.SweepReport{}, err
	}

	now := s.now()
	report := models.SweepReport{At: now}
	swept := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if _, tr := s.policy.SweepOne(a, now); tr == lifecycle.TransitionNone {
			swept = append(swept, a)
			continue
		}

		fresh, tr, err := s.sweepRecord(ctx, a.ID, now)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			// deleted after the load
			continue
		case err != nil:
			s.logger.Errorf(providers.TypeApp, "Unable to persist swept account %s: %s", a.ID, err)
			return nil, models.SweepReport{}, err
		}
		switch tr {
		case lifecycle.TransitionAged:
			report.Aged++
		case lifecycle.TransitionReset:
			report.Reset++
		}
		swept = append(swept, fresh)
	}
	report.Total = len(swept)

	if report.Changed() {
		s.logger.Infof(providers.TypeApp, "Sweep updated accounts: aged=%d reset=%d", report.Aged, report.Reset)
		s.notify()
	}
	s.record(report, swept)
	return swept, report, nil
}

// sweepRecord applies the lifecycle rules to the stored copy of id and writes
// it back only when a transition happened.
func (s *AccountService) sweepRecord(ctx context.Context, id string, now time.Time) (models.Account, lifecycle.Transition, error) {
	applied := lifecycle.TransitionNone
	a, err := s.store.Modify(ctx, id, func(a *models.Account) error {
		next, tr := s.policy.SweepOne(*a, now)
		applied = tr
		if tr == lifecycle.TransitionNone {
			return errNoChange
		}
		*a = next
		return nil
	})
	if errors.Is(err, errNoChange) {
		return a, lifecycle.TransitionNone, nil
	}
	if err != nil {
		return models.Account{}, lifecycle.TransitionNone, err
	}
	return a, applied, nil
}

// Subscribe registers fn to run after lifecycle transitions are written back.
func (s *AccountService) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *AccountService) notify() {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subscribers {
		fn()
	}
}

func (s *AccountService) record(report models.SweepReport, accounts []models.Account) {
	s.lastSweepAt.Store(report.At)
	s.lastTotal.Store(int64(report.Total))
	s.lastAged.Store(int64(report.Aged))
	s.lastReset.Store(int64(report.Reset))

	var fresh, unused, used int
	for _, a := range accounts {
		switch {
		case !a.IsOldAccount:
			fresh++
		case a.IsUsed:
			used++
		default:
			unused++
		}
	}
	s.metrics.SetAccountsTotal(providers.StateNew, fresh)
	s.metrics.SetAccountsTotal(providers.StateUnused, unused)
	s.metrics.SetAccountsTotal(providers.StateUsed, used)
	s.metrics.AddSweepTransitions(lifecycle.TransitionAged.String(), report.Aged)
	s.metrics.AddSweepTransitions(lifecycle.TransitionReset.String(), report.Reset)
}

func (s *AccountService) List(ctx context.Context, group string) ([]models.AccountView, error) {
	if !validGroup(group) {
		return nil, errs.Invalid("unknown group %q", group)
	}
	accounts, report, err := s.sweepAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.AccountView, 0, len(accounts))
	for _, a := range accounts {
		if inGroup(a, group) {
			views = append(views, s.policy.View(a, report.At))
		}
	}
	return views, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (models.AccountView, error) {
	now := s.now()
	a, tr, err := s.sweepRecord(ctx, id, now)
	if err != nil {
		return models.AccountView{}, err
	}
	if tr != lifecycle.TransitionNone {
		s.logger.Infof(providers.TypeApp, "Account %s %s on read", id, tr)
		s.notify()
	}
	return s.policy.View(a, now), nil
}

func (s *AccountService) Create(ctx context.Context, name string) (models.AccountView, error) {
	req := models.CreateRequest{Name: strings.TrimSpace(name)}
	v := validate.Struct(&req)
	if !v.Validate() {
		return models.AccountView{}, errs.Invalid("%s", v.Errors.One())
	}

	now := s.now()
	a := models.NewAccount(s.newID(), req.Name, now)
	if err := s.store.Upsert(ctx, a); err != nil {
		s.logger.Errorf(providers.TypeApp, "Unable to create account %q: %s", req.Name, err)
		return models.AccountView{}, err
	}

	s.logger.Infof(providers.TypePost, "Account created: id=%s name=%q", a.ID, a.Name)
	return s.policy.View(a, now), nil
}

func (s *AccountService) notice(a models.Account, now time.Time) string {
	return fmt.Sprintf("new accounts can be used %d days after creation, %d days left",
		s.policy.AgingDays, s.policy.DaysUntilEligible(a, now))
}

func (s *AccountService) Toggle(ctx context.Context, id string) (models.ToggleResponse, error) {
	now := s.now()
	a, err := s.store.Modify(ctx, id, func(a *models.Account) error {
		swept, _ := s.policy.SweepOne(*a, now)
		next, ok := s.policy.Toggle(swept, now)
		if !ok {
			return errs.ErrNotEligible
		}
		*a = next
		return nil
	})

	switch {
	case errors.Is(err, errs.ErrNotEligible):
		s.metrics.IncToggles(ToggleRejected)
		s.logger.Infof(providers.TypePost, "Toggle rejected for new account %s", id)
		return models.ToggleResponse{
			Account: s.policy.View(a, now),
			Applied: false,
			Notice:  s.notice(a, now),
		}, nil
	case err != nil:
		if errs.IsStorage(err) {
			s.logger.Errorf(providers.TypeApp, "Unable to toggle account %s: %s", id, err)
		}
		return models.ToggleResponse{}, err
	}

	outcome := ToggleUnused
	if a.IsUsed {
		outcome = ToggleUsed
	}
	s.metrics.IncToggles(outcome)
	s.logger.Infof(providers.TypePost, "Account %s marked %s", id, outcome)

	return models.ToggleResponse{Account: s.policy.View(a, now), Applied: true}, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errs.IsStorage(err) {
			s.logger.Errorf(providers.TypeApp, "Unable to delete account %s: %s", id, err)
		}
		return err
	}
	s.logger.Infof(providers.TypePost, "Account deleted: id=%s", id)
	return nil
}

func validateCollection(accounts []models.Account) ([]models.Account, error) {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]models.Account, 0, len(accounts))
	for i, a := range accounts {
		if strings.TrimSpace(a.ID) == "" {
			return nil, errs.Invalid("accounts[%d]: id is empty", i)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, errs.Invalid("accounts[%d]: duplicate id %q", i, a.ID)
		}
		seen[a.ID] = struct{}{}
		if strings.TrimSpace(a.Name) == "" {
			return nil, errs.Invalid("accounts[%d]: name is empty", i)
		}
		if a.CreatedDate.IsZero() {
			return nil, errs.Invalid("accounts[%d]: createdDate is missing", i)
		}
		if a.IsUsed && a.LastUsedDate == nil {
			return nil, errs.Invalid("accounts[%d]: lastUsedDate is missing for a used account", i)
		}
		out = append(out, a.Normalize())
	}
	return out, nil
}

func (s *AccountService) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	valid, err := validateCollection(accounts)
	if err != nil {
		return err
	}
	if err = s.store.ReplaceAll(ctx, valid); err != nil {
		s.logger.Errorf(providers.TypeApp, "Unable to replace accounts: %s", err)
		return err
	}
	s.logger.Warnf(providers.TypePost, "Account collection replaced: %d accounts", len(valid))
	return nil
}

func (s *AccountService) Sweep(ctx context.Context) (models.SweepReport, error) {
	_, report, err := s.sweepAll(ctx)
	return report, err
}

func (s *AccountService) Snapshot(ctx context.Context) ([]models.Account, error) {
	return s.store.LoadAll(ctx)
}

// Restore loads accounts only into an empty store and reports whether it did.
func (s *AccountService) Restore(ctx context.Context, accounts []models.Account) (bool, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err = s.ReplaceAll(ctx, accounts); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountService) LastSweep() models.SweepReport {
	return models.SweepReport{
		At:    s.lastSweepAt.Load(),
		Total: int(s.lastTotal.Load()),
		Aged:  int(s.lastAged.Load()),
		Reset: int(s.lastReset.Load()),
	}
}
