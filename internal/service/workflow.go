package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/programselect/internal/model"
	"github.com/jjenkins/programselect/internal/tabular"
	"go.uber.org/zap"
)

// Options configures a Workflow
type Options struct {
	ProgramsRange     string
	DirectoryRange    string
	LedgerReadRange   string
	LedgerAppendRange string
	ReadAttempts      int
	RetryBackoff      time.Duration
	// Now overrides the ledger clock; nil uses time.Now
	Now func() time.Time
}

// Workflow ties the directory, the capacity table and the ledger together.
// It holds no state between requests; every session reads the store fresh
type Workflow struct {
	directory *DirectoryLookup
	capacity  *CapacityView
	ledger    *Ledger
	logger    *zap.Logger
}

// NewWorkflow creates a Workflow over store
func NewWorkflow(store tabular.Store, opts Options, logger *zap.Logger) *Workflow {
	r := newReader(store, opts.ReadAttempts, opts.RetryBackoff, logger)
	return &Workflow{
		directory: newDirectoryLookup(r, opts.DirectoryRange),
		capacity:  newCapacityView(r, opts.ProgramsRange, logger),
		ledger:    newLedger(store, r, opts.LedgerReadRange, opts.LedgerAppendRange, opts.Now),
		logger:    logger,
	}
}

// Programs returns the live program table
func (w *Workflow) Programs(ctx context.Context) ([]model.Program, error) {
	return w.capacity.Programs(ctx)
}

// Submissions returns the ledger, keeping only program when it is non-empty
func (w *Workflow) Submissions(ctx context.Context, program string) ([]model.SubmissionRecord, error) {
	records, err := w.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	if program == "" {
		return records, nil
	}

	filtered := make([]model.SubmissionRecord, 0, len(records))
	for _, r := range records {
		if r.Program == program {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// NewSession starts a session in StateIdle
func (w *Workflow) NewSession() *Session {
	return &Session{wf: w, state: StateIdle}
}

// Resume builds a session that is ready to confirm from a submission the
// caller assembled after its own search. Blank fields fail with a
// ValidationError before the store is touched
func (w *Workflow) Resume(sub Submission) (*Session, error) {
	if err := ValidateSubmission(sub); err != nil {
		submissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	return &Session{
		wf:    w,
		state: StateReadyToSubmit,
		identity: model.StudentIdentity{
			StudentID: strings.TrimSpace(sub.StudentID),
			Title:     sub.Title,
			GivenName: sub.Name,
			Surname:   sub.Surname,
		},
		choice:  strings.TrimSpace(sub.Program),
		resumed: true,
	}, nil
}

// State is a step of the enrollment state machine
type State int

const (
	StateIdle State = iota
	StateSearching
	StateFound
	StateNotFound
	StateNoCapacity
	StateReadyToSubmit
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	case StateNoCapacity:
		return "no_capacity"
	case StateReadyToSubmit:
		return "ready_to_submit"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session walks one operator through search, choose and confirm. A Session
// is not safe for concurrent use
type Session struct {
	wf        *Workflow
	state     State
	identity  model.StudentIdentity
	offerable []model.Program
	resumed   bool
	choice    string
	record    model.SubmissionRecord
}

func (s *Session) State() State                    { return s.state }
func (s *Session) Identity() model.StudentIdentity { return s.identity }
func (s *Session) Offerable() []model.Program      { return s.offerable }
func (s *Session) Choice() string                  { return s.choice }
func (s *Session) Record() model.SubmissionRecord  { return s.record }

// Search looks the student up and computes the offerable programs from a
// fresh capacity read. It may be called from any state except Submitted
func (s *Session) Search(ctx context.Context, studentID string) error {
	if s.state == StateSubmitted {
		return fmt.Errorf("%w: search after submit", ErrInvalidTransition)
	}

	*s = Session{wf: s.wf, state: StateSearching}
	log := s.wf.logger.With(zap.String("student_id", strings.TrimSpace(studentID)))

	identity, err := s.wf.directory.Find(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			s.state = StateNotFound
			lookupsTotal.WithLabelValues("not_found").Inc()
			log.Info("student not found")
			return err
		}
		s.state = StateIdle
		lookupsTotal.WithLabelValues("error").Inc()
		return err
	}
	s.identity = identity

	programs, err := s.wf.capacity.Programs(ctx)
	if err != nil {
		s.state = StateIdle
		lookupsTotal.WithLabelValues("error").Inc()
		return err
	}

	s.offerable = Offerable(programs)
	if len(s.offerable) == 0 {
		s.state = StateNoCapacity
		lookupsTotal.WithLabelValues("no_capacity").Inc()
		log.Info("student found but no program has seats")
		return ErrNoCapacity
	}

	s.state = StateFound
	lookupsTotal.WithLabelValues("found").Inc()
	log.Debug("student found", zap.Int("offerable", len(s.offerable)))
	return nil
}

// Choose picks one of the programs offered at search time. Availability is
// not re-checked here; Confirm does that
func (s *Session) Choose(program string) error {
	if s.state != StateFound && s.state != StateReadyToSubmit {
		return fmt.Errorf("%w: choose in state %s", ErrInvalidTransition, s.state)
	}

	for _, p := range s.offerable {
		if p.Name == program {
			s.choice = program
			s.state = StateReadyToSubmit
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrProgramNotOffered, program)
}

// Confirm re-reads capacity for the chosen program and appends the ledger
// row only if it still shows a seat. The store has no compare-and-swap, so
// two confirms that both pass the re-check before either append lands can
// both succeed for the last seat; that window is accepted
func (s *Session) Confirm(ctx context.Context) (model.SubmissionRecord, error) {
	if s.state != StateReadyToSubmit {
		return model.SubmissionRecord{}, fmt.Errorf("%w: confirm in state %s", ErrInvalidTransition, s.state)
	}

	log := s.wf.logger.With(
		zap.String("student_id", s.identity.StudentID),
		zap.String("program", s.choice),
	)

	program, err := s.wf.capacity.Lookup(ctx, s.choice)
	if err != nil {
		if errors.Is(err, ErrUnknownProgram) {
			s.state = StateIdle
			submissionsTotal.WithLabelValues("unknown_program").Inc()
			log.Info("submission for unknown program")
			return model.SubmissionRecord{}, err
		}
		submissionsTotal.WithLabelValues("error").Inc()
		return model.SubmissionRecord{}, err
	}

	if !program.Offerable() {
		s.state = StateNoCapacity
		submissionsTotal.WithLabelValues("seat_filled").Inc()
		log.Info("no seat at confirm", zap.String("available", program.Available))
		if s.resumed {
			return model.SubmissionRecord{}, fmt.Errorf("%w: %q", ErrProgramFull, s.choice)
		}
		return model.SubmissionRecord{}, fmt.Errorf("%w: %q", ErrSeatFilled, s.choice)
	}

	// The ledger stores the table's spelling so exact-match filters find it.
	rec, err := s.wf.ledger.Append(ctx, s.identity, strings.TrimSpace(program.Name))
	if err != nil {
		submissionsTotal.WithLabelValues("error").Inc()
		return model.SubmissionRecord{}, err
	}

	s.record = rec
	s.state = StateSubmitted
	submissionsTotal.WithLabelValues("submitted").Inc()
	log.Info("submission recorded", zap.String("timestamp", rec.Timestamp))
	return rec, nil
}
