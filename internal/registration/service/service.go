// Package service orchestrates registration sessions. Each call loads the
// wizard for one draft, applies a single event, persists the snapshot, and
// on submission runs the provisioning saga.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"agora/internal/audit"
	"agora/internal/registration/metrics"
	"agora/internal/registration/models"
	"agora/internal/registration/provisioning"
	"agora/internal/registration/validation"
	"agora/internal/registration/wizard"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/sentinel"
	"agora/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// SessionStore persists wizard snapshots.
type SessionStore interface {
	Save(ctx context.Context, snapshot wizard.Snapshot) error
	SaveIf(ctx context.Context, snapshot wizard.Snapshot, expect wizard.State) error
	Find(ctx context.Context, draftID id.DraftID) (wizard.Snapshot, error)
}

// Provisioner runs the provisioning saga for a frozen draft.
type Provisioner interface {
	Provision(ctx context.Context, role models.Role, draft models.Draft) provisioning.Outcome
}

// AuditPublisher records registration lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the registration use-case layer.
type Service struct {
	sessions    SessionStore
	provisioner Provisioner
	flows       map[string]models.Flow
	engine      *validation.Engine
	auditor     AuditPublisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	clock       func() time.Time
	submissions singleflight.Group
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithEngine(e *validation.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithClock fixes the time source. Without it the request time from ctx is used.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New builds a Service serving the given flows.
func New(sessions SessionStore, provisioner Provisioner, flows []models.Flow, opts ...Option) (*Service, error) {
	if sessions == nil {
		return nil, errors.New("sessions store is required")
	}
	if provisioner == nil {
		return nil, errors.New("provisioner is required")
	}
	if len(flows) == 0 {
		return nil, errors.New("at least one flow is required")
	}
	s := &Service{
		sessions:    sessions,
		provisioner: provisioner,
		flows:       make(map[string]models.Flow, len(flows)),
		engine:      validation.NewEngine(),
	}
	for _, f := range flows {
		s.flows[f.Name] = f
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Flow returns the flow registered under name.
func (s *Service) Flow(name string) (models.Flow, bool) {
	f, ok := s.flows[name]
	return f, ok
}

func (s *Service) clockFor(ctx context.Context) func() time.Time {
	if s.clock != nil {
		return s.clock
	}
	return func() time.Time { return requestcontext.Now(ctx) }
}

func (s *Service) wizardOptions(ctx context.Context) []wizard.Option {
	return []wizard.Option{wizard.WithEngine(s.engine), wizard.WithClock(s.clockFor(ctx))}
}

// load restores the wizard for draftID.
func (s *Service) load(ctx context.Context, draftID id.DraftID) (*wizard.Wizard, error) {
	if draftID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "registration session required")
	}
	snapshot, err := s.sessions.Find(ctx, draftID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found or expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	flow, ok := s.flows[snapshot.Flow]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "registration belongs to an unknown flow")
	}
	return wizard.Restore(snapshot, flow, s.wizardOptions(ctx)...)
}

func (s *Service) save(ctx context.Context, w *wizard.Wizard) error {
	if err := s.sessions.Save(ctx, w.Snapshot()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"draft_id", event.DraftID.String(),
			"error", err,
		)
	}
}

func (s *Service) recordValidation(field validation.FieldKind, res validation.Result) {
	if s.metrics != nil && !res.OK() {
		s.metrics.IncValidationFailure(string(field), string(res.Code()))
	}
}
