package registration

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scriptink/writofest-api/internal/logging"
	"github.com/scriptink/writofest-api/internal/models"
)

// ErrNotFound is returned by a Store when no record matches.
var ErrNotFound = errors.New("registration not found")

// Store is the persistence capability the service depends on.
type Store interface {
	FindByIdentifier(ctx context.Context, usn string) (*models.Registration, error)
	FindDuplicate(ctx context.Context, usn, name, events string) (*models.Registration, error)
	Insert(ctx context.Context, reg *models.Registration) error
	Update(ctx context.Context, reg *models.Registration) error
}

// Dispatcher hands a newly created registration to the notifiers without
// waiting for them.
type Dispatcher interface {
	Dispatch(ctx context.Context, reg models.Registration)
}

// Recorder counts request outcomes.
type Recorder interface {
	RecordRegistration(outcome string)
}

type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeClosed    Outcome = "closed"
	OutcomeFailed    Outcome = "failed"
)

// Result is a successful registration.
type Result struct {
	Outcome      Outcome
	Registration *models.Registration
}

type Options struct {
	Policy Policy
	Schema Schema
}

type Service struct {
	store      Store
	dispatcher Dispatcher
	recorder   Recorder
	policy     Policy
	required   []Field
}

// NewService builds a service. dispatcher and recorder may be nil.
func NewService(store Store, dispatcher Dispatcher, recorder Recorder, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = PolicyUpsert
	}
	if len(opts.Schema.Required) == 0 {
		opts.Schema = SchemaFull
	}
	required := appendUnique(nil, opts.Schema.Required...)
	required = appendUnique(required, opts.Policy.KeyFields()...)

	return &Service{
		store:      store,
		dispatcher: dispatcher,
		recorder:   recorder,
		policy:     opts.Policy,
		required:   required,
	}
}

// Policy reports the active policy.
func (s *Service) Policy() Policy { return s.policy }

// Required reports the fields a submission must carry.
func (s *Service) Required() []Field { return s.required }

// CheckOpen returns ErrClosed when the active policy accepts no submissions.
// It performs no I/O.
func (s *Service) CheckOpen(ctx context.Context) error {
	if s.policy != PolicyClosed {
		return nil
	}
	s.record(OutcomeClosed)
	logging.FromContext(ctx).Info("registration rejected", slog.String("reason", ErrClosed.Error()))
	return ErrClosed
}

// Register validates a normalized submission and stores it according to the
// active policy. Errors are ErrClosed, ErrDuplicate, *ValidationError or
// *PersistenceError.
func (s *Service) Register(ctx context.Context, sub Submission) (*Result, error) {
	logger := logging.FromContext(ctx)

	if err := s.CheckOpen(ctx); err != nil {
		return nil, err
	}

	if missing := sub.Missing(s.required); len(missing) > 0 {
		s.record(OutcomeInvalid)
		err := &ValidationError{Missing: missing}
		logger.Info("registration rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch s.policy {
	case PolicyRejectDuplicate:
		res, err = s.insertUnlessDuplicate(ctx, sub)
	default:
		res, err = s.upsert(ctx, sub)
	}

	var perr *PersistenceError
	switch {
	case errors.As(err, &perr):
		s.record(OutcomeFailed)
		logger.Error("registration failed",
			slog.String("op", perr.Op),
			slog.String("usn", sub.Usn),
			slog.Any("error", perr.Err),
		)
		return nil, err
	case errors.Is(err, ErrDuplicate):
		s.record(OutcomeDuplicate)
		logger.Info("duplicate registration rejected", slog.String("usn", sub.Usn))
		return nil, err
	case err != nil:
		s.record(OutcomeFailed)
		return nil, err
	}

	s.record(res.Outcome)
	logger.Info("registration stored",
		slog.String("outcome", string(res.Outcome)),
		slog.Uint64("id", uint64(res.Registration.ID)),
		slog.String("usn", res.Registration.Usn),
	)

	if res.Outcome == OutcomeCreated && s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, *res.Registration)
	}
	return res, nil
}

func (s *Service) upsert(ctx context.Context, sub Submission) (*Result, error) {
	existing, err := s.store.FindByIdentifier(ctx, sub.Usn)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, &PersistenceError{Op: "look up", Err: err}
	}

	if existing != nil {
		existing.RegistrationFields = sub.Fields()
		if err := s.store.Update(ctx, existing); err != nil {
			return nil, &PersistenceError{Op: "update", Err: err}
		}
		return &Result{Outcome: OutcomeUpdated, Registration: existing}, nil
	}

	return s.insert(ctx, sub)
}

func (s *Service) insertUnlessDuplicate(ctx context.Context, sub Submission) (*Result, error) {
	existing, err := s.store.FindDuplicate(ctx, sub.Usn, sub.Name, sub.Events)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, &PersistenceError{Op: "look up", Err: err}
	}
	if existing != nil {
		return nil, ErrDuplicate
	}
	return s.insert(ctx, sub)
}

func (s *Service) insert(ctx context.Context, sub Submission) (*Result, error) {
	reg := sub.Registration()
	if err := s.store.Insert(ctx, reg); err != nil {
		return nil, &PersistenceError{Op: "insert", Err: err}
	}
	return &Result{Outcome: OutcomeCreated, Registration: reg}, nil
}

func (s *Service) record(o Outcome) {
	if s.recorder != nil {
		s.recorder.RecordRegistration(string(o))
	}
}
