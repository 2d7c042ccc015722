// Package handler exposes the registration wizard over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"agora/internal/platform/middleware"
	"agora/internal/registration/models"
	"agora/internal/registration/service"
	"agora/internal/registration/validation"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/httputil"
	"agora/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service is the registration use-case surface the handler drives.
type Service interface {
	Start(ctx context.Context, flowName string) (service.View, error)
	Get(ctx context.Context, draftID id.DraftID) (service.View, error)
	SetField(ctx context.Context, draftID id.DraftID, field validation.FieldKind, value string) (service.View, service.FieldResult, error)
	SetCapabilities(ctx context.Context, draftID id.DraftID, tags []string) (service.View, service.FieldResult, error)
	AttachArtifact(ctx context.Context, draftID id.DraftID, artifact models.Artifact) (service.View, service.FieldResult, error)
	RemoveArtifact(ctx context.Context, draftID id.DraftID, category models.ArtifactCategory) (service.View, error)
	Advance(ctx context.Context, draftID id.DraftID) (service.View, error)
	Retreat(ctx context.Context, draftID id.DraftID) (service.View, error)
}

// TokenIssuer mints the session token returned when a registration starts.
type TokenIssuer interface {
	IssueSessionToken(draftID id.DraftID, flow string, expiresIn time.Duration) (string, error)
}

// Handler handles the /registrations endpoints.
type Handler struct {
	logger     *slog.Logger
	service    Service
	tokens     TokenIssuer
	validator  middleware.SessionValidator
	sessionTTL time.Duration
	startLimit func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithStartLimit wraps the create endpoint, typically in a per-IP rate limit.
func WithStartLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.startLimit = mw
	}
}

// New creates a registration Handler. sessionTTL should match the draft
// session store so a token never outlives its draft.
func New(svc Service, tokens TokenIssuer, validator middleware.SessionValidator, sessionTTL time.Duration, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger:     logger,
		service:    svc,
		tokens:     tokens,
		validator:  validator,
		sessionTTL: sessionTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registration routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registrations", func(r chi.Router) {
		if h.startLimit != nil {
			r.With(h.startLimit).Post("/", h.handleStart)
		} else {
			r.Post("/", h.handleStart)
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(h.validator, h.logger))
			r.Get("/{id}", h.handleGet)
			r.Put("/{id}/fields", h.handleSetField)
			r.Put("/{id}/artifacts/{category}", h.handleAttachArtifact)
			r.Delete("/{id}/artifacts/{category}", h.handleRemoveArtifact)
			r.Post("/{id}/advance", h.handleAdvance)
			r.Post("/{id}/retreat", h.handleRetreat)
		})
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req StartRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid start registration request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Start(ctx, strings.TrimSpace(req.Flow))
	if err != nil {
		h.fail(ctx, w, "failed to start registration", err)
		return
	}
	token, err := h.tokens.IssueSessionToken(view.ID, view.Flow, h.sessionTTL)
	if err != nil {
		h.fail(ctx, w, "failed to issue session token", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, StartResponse{
		Token:        token,
		ExpiresIn:    int64(h.sessionTTL.Seconds()),
		Registration: view,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	draftID, ok := h.draftID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), draftID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load registration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	draftID, ok := h.draftID(w, r)
	if !ok {
		return
	}
	var req SetFieldRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var (
		view   service.View
		result service.FieldResult
		err    error
	)
	field := validation.FieldKind(strings.TrimSpace(req.Field))
	switch {
	case field == "":
		err = dErrors.New(dErrors.CodeBadRequest, "field is required")
	case field == validation.FieldCapabilities:
		view, result, err = h.service.SetCapabilities(ctx, draftID, req.Values)
	case req.Value == nil:
		err = dErrors.New(dErrors.CodeBadRequest, "value is required")
	default:
		view, result, err = h.service.SetField(ctx, draftID, field, *req.Value)
	}
	if err != nil {
		h.fail(ctx, w, "failed to set field", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FieldResponse{Registration: view, Result: result})
}

func (h *Handler) handleAttachArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	draftID, ok := h.draftID(w, r)
	if !ok {
		return
	}
	// One byte past the limit lets validation report the size instead of a truncated file.
	data, err := io.ReadAll(io.LimitReader(r.Body, validation.MaxArtifactBytes+1))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read artifact body"))
		return
	}
	artifact := models.Artifact{
		Category:    models.ArtifactCategory(chi.URLParam(r, "category")),
		Filename:    strings.TrimSpace(r.URL.Query().Get("filename")),
		ContentType: mediaType(r.Header.Get("Content-Type")),
		Data:        data,
	}
	view, result, err := h.service.AttachArtifact(ctx, draftID, artifact)
	if err != nil {
		h.fail(ctx, w, "failed to attach artifact", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FieldResponse{Registration: view, Result: result})
}

func (h *Handler) handleRemoveArtifact(w http.ResponseWriter, r *http.Request) {
	draftID, ok := h.draftID(w, r)
	if !ok {
		return
	}
	category := models.ArtifactCategory(chi.URLParam(r, "category"))
	view, err := h.service.RemoveArtifact(r.Context(), draftID, category)
	if err != nil {
		h.fail(r.Context(), w, "failed to remove artifact", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "advance", h.service.Advance)
}

func (h *Handler) handleRetreat(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "retreat", h.service.Retreat)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, name string, move func(context.Context, id.DraftID) (service.View, error)) {
	draftID, ok := h.draftID(w, r)
	if !ok {
		return
	}
	view, err := move(r.Context(), draftID)
	if err != nil {
		h.fail(r.Context(), w, "failed to "+name+" registration", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// draftID parses the path id and checks it against the session token's draft.
func (h *Handler) draftID(w http.ResponseWriter, r *http.Request) (id.DraftID, bool) {
	ctx := r.Context()
	draftID, err := id.ParseDraftID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.DraftID{}, false
	}
	if requestcontext.DraftID(ctx) != draftID {
		h.logger.WarnContext(ctx, "session token does not match registration",
			"request_id", requestcontext.RequestID(ctx),
			"draft_id", draftID.String(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "session token does not grant access to this registration"))
		return id.DraftID{}, false
	}
	return draftID, true
}

// fail logs at WARN for caller errors and ERROR for everything else.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	code, _ := dErrors.CodeOf(err)
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func mediaType(header string) string {
	mt, _, _ := strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
