package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/internal/registration/provisioning"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PostgresStore writes profile rows through pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Update(ctx context.Context, userID id.UserID, fields provisioning.ContactUpdate) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles SET phone = $2, calling_code = $3, updated_at = now()
		WHERE account_id = $1
	`, userID.String(), fields.Phone, fields.CallingCode)
	if err != nil {
		return translate("update contact", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update contact: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) InsertDocumentRecord(ctx context.Context, r provisioning.DocumentRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, owner_id, category, storage_key, filename, content_type, size_bytes, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.ID.String(), r.OwnerID.String(), string(r.Category), r.StorageKey, r.Filename,
		r.ContentType, r.SizeBytes, string(r.Status), r.UploadedAt)
	if err != nil {
		return translate("insert document record", err)
	}
	return nil
}

// CreateRoleProfile calls the create_role_profile function, which writes
// the profile and its capability tags in one statement.
func (s *PostgresStore) CreateRoleProfile(ctx context.Context, userID id.UserID, p provisioning.RoleProfile) error {
	capabilities := p.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		SELECT create_role_profile($1, $2, $3, $4, $5, $6, NULLIF($7, '')::date, $8)
	`, userID.String(), string(p.Role), p.Affiliation, p.Course, p.Bio, p.Availability, p.DateOfBirth, capabilities)
	if err != nil {
		return translate("create role profile", err)
	}
	return nil
}

func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
