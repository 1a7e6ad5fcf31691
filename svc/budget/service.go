package budget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/expensekit/pkg/email"
	"github.com/dmitrymomot/expensekit/pkg/logger"
	"github.com/dmitrymomot/expensekit/pkg/sanitizer"
	"github.com/dmitrymomot/expensekit/pkg/validator"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultMailTimeout  = 10 * time.Second

	maxCategoryLength = 64
	minYear           = 1970
)

// Service manages budgets and their alerts.
type Service struct {
	store      Store
	spend      SpendSource
	recipients RecipientResolver
	sender     email.EmailSender

	appName      string
	storeTimeout time.Duration
	mailTimeout  time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithAppName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.appName = name
		}
	}
}

// WithTimeouts bounds store and mail calls. Zero values keep the defaults.
func WithTimeouts(store, mail time.Duration) Option {
	return func(s *Service) {
		if store > 0 {
			s.storeTimeout = store
		}
		if mail > 0 {
			s.mailTimeout = mail
		}
	}
}

func NewService(store Store, spend SpendSource, recipients RecipientResolver, sender email.EmailSender, opts ...Option) *Service {
	s := &Service{
		store:        store,
		spend:        spend,
		recipients:   recipients,
		sender:       sender,
		appName:      "Expense Tracker",
		storeTimeout: defaultStoreTimeout,
		mailTimeout:  defaultMailTimeout,
		now:          time.Now,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("budget"))
	return s
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, in CreateInput) (Progress, error) {
	category := normalizeCategory(in.Category)
	threshold := in.ThresholdPercent
	if threshold == 0 {
		threshold = DefaultThresholdPercent
	}

	if err := validator.Apply(
		validator.MaxLenString("category", category, maxCategoryLength),
		validator.NumBetween("month", in.Month, 1, 12),
		validator.MinNum("year", in.Year, minYear),
		validator.MinNum("amount", in.Amount, 0),
		validator.NumBetween("threshold_percent", threshold, 1, 100),
	); err != nil {
		return Progress{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	b := &Budget{
		ID:               uuid.New(),
		AccountID:        accountID,
		Category:         category,
		Month:            in.Month,
		Year:             in.Year,
		Amount:           in.Amount,
		ThresholdPercent: threshold,
		LastAlertStatus:  AlertNone,
	}
	if err := s.storeExec(ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, b)
	}); err != nil {
		return Progress{}, err
	}

	s.logger.InfoContext(ctx, "budget created",
		logger.AccountID(accountID),
		logger.BudgetID(b.ID),
	)
	return s.progress(ctx, b)
}

func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, in UpdateInput) (Progress, error) {
	var rules []validator.Rule
	if in.Amount != nil {
		rules = append(rules, validator.MinNum("amount", *in.Amount, 0))
	}
	if in.ThresholdPercent != nil {
		rules = append(rules, validator.NumBetween("threshold_percent", *in.ThresholdPercent, 1, 100))
	}
	if err := validator.Apply(rules...); err != nil {
		return Progress{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	b, err := s.get(ctx, accountID, id)
	if err != nil {
		return Progress{}, err
	}
	if in.Amount != nil {
		b.Amount = *in.Amount
	}
	if in.ThresholdPercent != nil {
		b.ThresholdPercent = *in.ThresholdPercent
	}

	if err := s.storeExec(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, b)
	}); err != nil {
		return Progress{}, err
	}
	return s.progress(ctx, b)
}

// List returns the period's budgets with their progress, evaluating alerts for each.
func (s *Service) List(ctx context.Context, accountID uuid.UUID, month, year int) ([]Progress, error) {
	if err := validator.Apply(
		validator.NumBetween("month", month, 1, 12),
		validator.MinNum("year", year, minYear),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var budgets []*Budget
	if err := s.storeExec(ctx, func(ctx context.Context) error {
		var err error
		budgets, err = s.store.List(ctx, accountID, month, year)
		return err
	}); err != nil {
		return nil, err
	}

	out := make([]Progress, 0, len(budgets))
	for _, b := range budgets {
		p, err := s.progress(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.storeExec(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, accountID, id)
	}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "budget deleted",
		logger.AccountID(accountID),
		logger.BudgetID(id),
	)
	return nil
}

// Check evaluates b against spent and records the resulting status. When the status got
// worse and this call recorded it, an alert is sent. It reports whether an alert was
// attempted; delivery errors are logged, never returned.
func (s *Service) Check(ctx context.Context, b *Budget, spent float64) (bool, error) {
	// The stored value guards the write, so an empty or unknown status is replaced
	// rather than never matching. It still ranks as none when deciding to alert.
	stored := b.LastAlertStatus
	last := stored
	if !last.Valid() {
		last = AlertNone
	}
	next := Evaluate(spent, b.Amount, b.ThresholdPercent)
	if next == stored {
		return false, nil
	}

	at := s.now()
	var won bool
	if err := s.storeExec(ctx, func(ctx context.Context) error {
		var err error
		won, err = s.store.AdvanceAlertStatus(ctx, b.ID, stored, next, at)
		return err
	}); err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	b.LastAlertStatus = next
	b.LastAlertAt = &at

	if !ShouldAlert(last, next) {
		s.logger.DebugContext(ctx, "budget status lowered",
			logger.BudgetID(b.ID),
			logger.Status(string(next)),
		)
		return false, nil
	}

	if err := s.notify(ctx, b, spent, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to send budget alert",
			logger.AccountID(b.AccountID),
			logger.BudgetID(b.ID),
			logger.Status(string(next)),
			logger.Error(err),
		)
	} else {
		s.logger.InfoContext(ctx, "budget alert sent",
			logger.AccountID(b.AccountID),
			logger.BudgetID(b.ID),
			logger.Status(string(next)),
		)
	}
	return true, nil
}

func (s *Service) progress(ctx context.Context, b *Budget) (Progress, error) {
	var spent float64
	if err := s.storeExec(ctx, func(ctx context.Context) error {
		var err error
		spent, err = s.spend.MonthlySpend(ctx, b.AccountID, b.Category, b.Month, b.Year)
		return err
	}); err != nil {
		return Progress{}, err
	}

	if _, err := s.Check(ctx, b, spent); err != nil {
		s.logger.WarnContext(ctx, "budget alert evaluation failed",
			logger.BudgetID(b.ID),
			logger.Error(err),
		)
	}
	return NewProgress(*b, spent), nil
}

func (s *Service) get(ctx context.Context, accountID, id uuid.UUID) (*Budget, error) {
	var b *Budget
	err := s.storeExec(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.store.Get(ctx, accountID, id)
		return err
	})
	return b, err
}

func (s *Service) storeExec(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return classify(fn(ctx))
}

func (s *Service) notify(ctx context.Context, b *Budget, spent float64, status AlertStatus) error {
	if s.sender == nil || s.recipients == nil {
		return errors.New("alert delivery not configured")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
	defer cancel()

	to, err := s.recipients.Recipient(ctx, b.AccountID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	params, err := s.composeAlert(ctx, to, b, spent, status)
	if err != nil {
		return err
	}
	return s.sender.SendEmail(ctx, params)
}

func normalizeCategory(c string) string {
	c = sanitizer.DisplayName(c)
	if c == "" {
		return CategoryAll
	}
	return c
}
