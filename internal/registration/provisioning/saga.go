// Package provisioning turns a submitted registration draft into an account.
//
// A run is an ordered list of phase descriptors executed strictly in
// sequence by one generic runner. Fatal phases abort the run; non-fatal
// phases record their failure and the run continues. Nothing is compensated:
// a fatal role-profile failure leaves the identity and any uploads in place,
// and a failed metadata insert leaves its blob without a record. Both windows
// are reported through the Outcome rather than repaired here.
package provisioning

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"agora/internal/registration/metrics"
	"agora/internal/registration/models"
	"agora/internal/registration/validation"
	id "agora/pkg/domain"
)

const tracerName = "agora/registration/provisioning"

// Saga executes provisioning runs against the three backends.
type Saga struct {
	identity IdentityIssuer
	blobs    BlobStore
	profiles ProfileStore
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	clock    func() time.Time
}

type Option func(*Saga)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Saga) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Saga) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Saga) {
		s.tracer = t
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Saga) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Saga. The backends are injected so tests can substitute fakes.
func New(identity IdentityIssuer, blobs BlobStore, profiles ProfileStore, opts ...Option) *Saga {
	s := &Saga{
		identity: identity,
		blobs:    blobs,
		profiles: profiles,
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// runState is shared between phases of a single run. Phases read the draft
// and the identity created by the first phase; they never modify the draft.
type runState struct {
	role      models.Role
	draft     models.Draft
	accountID id.UserID
	uploaded  map[models.ArtifactCategory]string
}

// phase describes one step of the run.
type phase struct {
	id      PhaseID
	subject string
	fatal   bool
	// skip returns a reason when an optional phase has nothing to do.
	skip func(st *runState) (string, bool)
	run  func(ctx context.Context, st *runState) (string, error)
}

// Provision runs every phase in order and returns the outcome. role is the
// fixed tag of the registration flow. The draft is received by value and
// only read. There is no retry and no timeout beyond what ctx and the
// backends impose.
func (s *Saga) Provision(ctx context.Context, role models.Role, draft models.Draft) Outcome {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "provisioning.run",
		trace.WithAttributes(
			attribute.String("registration.role", string(role)),
			attribute.Int("registration.artifacts", len(draft.Artifacts)),
		))
	defer span.End()

	st := &runState{role: role, draft: draft, uploaded: make(map[models.ArtifactCategory]string)}
	var results []PhaseResult
	for _, p := range s.plan(draft) {
		res := s.runPhase(ctx, p, st)
		results = append(results, res)
		if res.Status == StatusFailedFatal {
			break
		}
	}

	outcome := NewOutcome(st.accountID, results)
	if s.metrics != nil {
		s.metrics.ObserveProvision(start)
	}
	if err := outcome.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome.Reason())
	}
	return outcome
}

func (s *Saga) runPhase(ctx context.Context, p phase, st *runState) PhaseResult {
	ctx, span := s.tracer.Start(ctx, "provisioning."+string(p.id),
		trace.WithAttributes(
			attribute.String("phase.subject", p.subject),
			attribute.Bool("phase.fatal", p.fatal),
		))
	defer span.End()

	res := PhaseResult{Phase: p.id, Subject: p.subject}
	if p.skip != nil {
		if reason, skip := p.skip(st); skip {
			res.Status = StatusSkippedOptional
			res.Detail = reason
			s.record(res)
			return res
		}
	}

	detail, err := p.run(ctx, st)
	res.Detail = detail
	switch {
	case err == nil:
		res.Status = StatusSucceeded
	case p.fatal:
		res.Status = StatusFailedFatal
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logError(ctx, "provisioning phase failed",
			"phase", p.id,
			"account_id", st.accountID.String(),
			"error", err,
		)
	default:
		res.Status = StatusFailedNonFatal
		res.Err = err
		span.RecordError(err)
		s.logWarn(ctx, "optional provisioning phase failed",
			"phase", p.id,
			"subject", p.subject,
			"account_id", st.accountID.String(),
			"error", err,
		)
	}
	s.record(res)
	return res
}

// plan lays out the phases for draft: identity, one upload per artifact,
// one metadata insert per artifact, contact update, role profile.
func (s *Saga) plan(draft models.Draft) []phase {
	phases := []phase{{id: PhaseIdentity, fatal: true, run: s.createIdentity}}
	for _, a := range draft.Artifacts {
		phases = append(phases, phase{
			id:      PhaseArtifactUpload,
			subject: string(a.Category),
			run:     s.uploadArtifact(a),
		})
	}
	for _, a := range draft.Artifacts {
		category := a.Category
		phases = append(phases, phase{
			id:      PhaseArtifactMetadata,
			subject: string(category),
			skip: func(st *runState) (string, bool) {
				if _, ok := st.uploaded[category]; !ok {
					return "upload did not succeed", true
				}
				return "", false
			},
			run: s.recordArtifact(a),
		})
	}
	return append(phases,
		phase{
			id: PhaseContactUpdate,
			skip: func(st *runState) (string, bool) {
				if strings.TrimSpace(st.draft.Phone) == "" {
					return "no phone number", true
				}
				return "", false
			},
			run: s.updateContact,
		},
		phase{id: PhaseRoleProfile, fatal: true, run: s.createRoleProfile},
	)
}

func (s *Saga) createIdentity(ctx context.Context, st *runState) (string, error) {
	d := st.draft
	accountID, err := s.identity.CreateAccount(ctx, strings.TrimSpace(d.Email), d.Password, AccountAttributes{
		DisplayName: d.DisplayName(),
		FirstName:   strings.TrimSpace(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		Role:        st.role,
	})
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	st.accountID = accountID
	return accountID.String(), nil
}

func (s *Saga) uploadArtifact(a models.Artifact) func(context.Context, *runState) (string, error) {
	return func(ctx context.Context, st *runState) (string, error) {
		key := s.storageKey(st.accountID, a)
		if err := s.blobs.Upload(ctx, key, a.Data); err != nil {
			return key, fmt.Errorf("upload %s: %w", a.Category, err)
		}
		st.uploaded[a.Category] = key
		return key, nil
	}
}

func (s *Saga) recordArtifact(a models.Artifact) func(context.Context, *runState) (string, error) {
	return func(ctx context.Context, st *runState) (string, error) {
		record := DocumentRecord{
			ID:          id.NewDocumentID(),
			OwnerID:     st.accountID,
			Category:    a.Category,
			StorageKey:  st.uploaded[a.Category],
			Filename:    a.Filename,
			ContentType: a.ContentType,
			SizeBytes:   a.Size(),
			Status:      VerificationPending,
			UploadedAt:  s.clock(),
		}
		if err := s.profiles.InsertDocumentRecord(ctx, record); err != nil {
			return record.StorageKey, fmt.Errorf("insert document record: %w", err)
		}
		return record.ID.String(), nil
	}
}

func (s *Saga) updateContact(ctx context.Context, st *runState) (string, error) {
	err := s.profiles.Update(ctx, st.accountID, ContactUpdate{
		Phone:       strings.TrimSpace(st.draft.Phone),
		CallingCode: strings.TrimSpace(st.draft.CallingCode),
	})
	if err != nil {
		return "", fmt.Errorf("update contact: %w", err)
	}
	return "", nil
}

func (s *Saga) createRoleProfile(ctx context.Context, st *runState) (string, error) {
	d := st.draft
	err := s.profiles.CreateRoleProfile(ctx, st.accountID, RoleProfile{
		Role:         st.role,
		Affiliation:  d.ResolvedAffiliation(validation.AffiliationOther),
		Course:       strings.TrimSpace(d.Course),
		Capabilities: d.Capabilities,
		Bio:          strings.TrimSpace(d.Bio),
		Availability: strings.TrimSpace(d.Availability),
		DateOfBirth:  d.DateOfBirth,
	})
	if err != nil {
		return "", fmt.Errorf("create role profile: %w", err)
	}
	return string(st.role), nil
}

// storageKey namespaces uploads by owner and category. The millisecond
// suffix keeps a resubmission from overwriting an earlier upload.
func (s *Saga) storageKey(owner id.UserID, a models.Artifact) string {
	ext, ok := validation.ArtifactContentTypes[strings.ToLower(a.ContentType)]
	if !ok {
		ext = strings.ToLower(filepath.Ext(a.Filename))
	}
	return fmt.Sprintf("documents/%s/%s-%d%s", owner, a.Category, s.clock().UnixMilli(), ext)
}

func (s *Saga) record(res PhaseResult) {
	if s.metrics != nil {
		s.metrics.IncPhase(string(res.Phase), string(res.Status))
	}
}

func (s *Saga) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Saga) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
