package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/casebridge/casebridge/internal/api"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/casebridge/casebridge/internal/store"
	"github.com/rs/zerolog"
)

type Option func(*appointmentService)

type skipGuardKey struct{}

// SkipPolicyGuard disables the policy guard for calls made with the returned
// context. The backend still rejects illegal transitions.
func SkipPolicyGuard(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipGuardKey{}, true)
}

func WithClock(now func() time.Time) Option {
	return func(s *appointmentService) {
		s.now = now
	}
}

// WithPolicyGuard rejects actions the lifecycle policy does not permit for
// the record currently in the store, before any request is sent. Records the
// store does not hold are passed through to the backend.
func WithPolicyGuard(enabled bool) Option {
	return func(s *appointmentService) {
		s.guard = enabled
	}
}

func WithObserver(obs UseCaseObserver) Option {
	return func(s *appointmentService) {
		s.observer = useCaseObserverOrNoop(obs)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *appointmentService) {
		s.logger = logger
	}
}

type appointmentService struct {
	session  *session.Session
	client   api.Client
	store    *store.Store
	now      func() time.Time
	guard    bool
	observer UseCaseObserver
	logger   zerolog.Logger

	inflight atomic.Int32
}

func NewAppointmentService(sess *session.Session, client api.Client, st *store.Store, opts ...Option) AppointmentService {
	s := &appointmentService{
		session:  sess,
		client:   client,
		store:    st,
		now:      time.Now,
		observer: NoopUseCaseObserver{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *appointmentService) State() State {
	if s.inflight.Load() > 0 {
		return StateSending
	}
	return StateIdle
}

func (s *appointmentService) Load(ctx context.Context, scope domain.Scope) (list []domain.Appointment, err error) {
	defer s.observe(ctx, "load-appointments", time.Now(), map[string]any{"scope": scope.Key()}, &err)
	return s.store.Load(ctx, scope)
}

func (s *appointmentService) Confirm(ctx context.Context, id string) (*Outcome, error) {
	return s.transition(ctx, id, domain.ActionConfirm)
}

func (s *appointmentService) Cancel(ctx context.Context, id string) (*Outcome, error) {
	return s.transition(ctx, id, domain.ActionCancel)
}

func (s *appointmentService) Complete(ctx context.Context, id string) (*Outcome, error) {
	return s.transition(ctx, id, domain.ActionComplete)
}

func (s *appointmentService) transition(ctx context.Context, id string, action domain.Action) (out *Outcome, err error) {
	defer s.observe(ctx, string(action)+"-appointment", time.Now(), map[string]any{"appointment_id": id}, &err)

	token, err := credential(s.session)
	if err != nil {
		return nil, err
	}
	if err = s.checkPolicy(ctx, id, action); err != nil {
		return nil, err
	}
	return s.send(ctx, string(action), action.PastTense(), func(ctx context.Context) (domain.Appointment, error) {
		return s.client.Transition(ctx, token, id, action)
	})
}

func (s *appointmentService) Reschedule(ctx context.Context, id string, date time.Time) (out *Outcome, err error) {
	fields := map[string]any{"appointment_id": id, "date": date.UTC().Format(time.RFC3339)}
	defer s.observe(ctx, "reschedule-appointment", time.Now(), fields, &err)

	token, err := credential(s.session)
	if err != nil {
		return nil, err
	}
	if err = domain.ValidateReschedule(date, s.now()); err != nil {
		return nil, err
	}
	if err = s.checkPolicy(ctx, id, domain.ActionReschedule); err != nil {
		return nil, err
	}
	return s.send(ctx, string(domain.ActionReschedule), domain.ActionReschedule.PastTense(), func(ctx context.Context) (domain.Appointment, error) {
		return s.client.Reschedule(ctx, token, id, date)
	})
}

func (s *appointmentService) Create(ctx context.Context, draft domain.Draft) (out *Outcome, err error) {
	fields := map[string]any{"case_id": draft.CaseID, "type": string(draft.Type), "created_by": string(draft.CreatedBy)}
	defer s.observe(ctx, "create-appointment", time.Now(), fields, &err)

	token, err := credential(s.session)
	if err != nil {
		return nil, err
	}
	if t, ok := domain.ParseType(string(draft.Type)); ok {
		draft.Type = t
	}
	if err = draft.Validate(s.now()); err != nil {
		return nil, err
	}
	out, err = s.send(ctx, "create", "created", func(ctx context.Context) (domain.Appointment, error) {
		return s.client.Create(ctx, token, draft)
	})
	if out != nil {
		fields["appointment_id"] = out.Appointment.ID
	}
	return out, err
}

// ExportICS downloads the calendar file. The store is not refreshed.
func (s *appointmentService) ExportICS(ctx context.Context, id string) (data []byte, err error) {
	defer s.observe(ctx, "export-ics", time.Now(), map[string]any{"appointment_id": id}, &err)

	token, err := credential(s.session)
	if err != nil {
		return nil, err
	}
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	data, err = s.client.ExportICS(ctx, token, id)
	if err != nil {
		expireOnReject(s.session, s.logger, err)
		return nil, err
	}
	return data, nil
}

// send issues the single request for an action and refreshes the store on
// success. A failed request leaves the store untouched.
func (s *appointmentService) send(ctx context.Context, action, pastTense string, call func(ctx context.Context) (domain.Appointment, error)) (*Outcome, error) {
	s.inflight.Add(1)
	appt, err := call(ctx)
	s.inflight.Add(-1)
	if err != nil {
		expireOnReject(s.session, s.logger, err)
		return nil, err
	}

	out := &Outcome{
		Action:      action,
		Appointment: appt,
		Message:     fmt.Sprintf("Appointment %s successfully", pastTense),
	}

	reloaded, reloadErr := s.store.Reload(ctx)
	switch {
	case !reloaded:
		s.store.Upsert(appt)
	case reloadErr != nil:
		out.ReloadErr = reloadErr
		s.logger.Warn().Err(reloadErr).Str("appointment_id", appt.ID).Msg("refresh after action failed")
	default:
		out.Reloaded = true
	}
	return out, nil
}

func (s *appointmentService) checkPolicy(ctx context.Context, id string, action domain.Action) error {
	if !s.guard {
		return nil
	}
	if skip, _ := ctx.Value(skipGuardKey{}).(bool); skip {
		return nil
	}
	rec, ok := s.store.Get(id)
	if !ok {
		return nil
	}
	now := s.now()
	if domain.PermittedActions(rec, now).Has(action) {
		return nil
	}
	reason := "it is " + strings.ToLower(string(rec.Status))
	if domain.Expired(rec, now) {
		reason = "its date has passed"
	}
	return &domain.ValidationError{
		Field:   "action",
		Message: fmt.Sprintf("cannot %s appointment %s: %s", action, id, reason),
	}
}

func (s *appointmentService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}
