package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/internal/identity/password"
	"agora/internal/registration/provisioning"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
	txcontext "agora/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresIssuer persists accounts in the accounts table and opens an empty
// profile row alongside, in one transaction.
type PostgresIssuer struct {
	pool   *pgxpool.Pool
	hasher password.Hasher
}

func NewPostgresIssuer(pool *pgxpool.Pool, hasher password.Hasher) *PostgresIssuer {
	return &PostgresIssuer{pool: pool, hasher: hasher}
}

// CreateAccount satisfies provisioning.IdentityIssuer.
func (s *PostgresIssuer) CreateAccount(ctx context.Context, email, plain string, attrs provisioning.AccountAttributes) (id.UserID, error) {
	account, err := newAccount(s.hasher, email, plain, attrs, time.Now().UTC())
	if err != nil {
		return id.UserID{}, err
	}

	err = txcontext.Run(ctx, s.pool, func(ctx context.Context) error {
		tx, _ := txcontext.From(ctx)
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (id, email, password_hash, display_name, first_name, last_name, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, account.ID.String(), account.Email, account.PasswordHash, account.DisplayName,
			account.FirstName, account.LastName, account.Role, account.CreatedAt)
		if err != nil {
			return translate(err)
		}
		_, err = tx.Exec(ctx, `INSERT INTO profiles (account_id) VALUES ($1)`, account.ID.String())
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return id.UserID{}, err
	}
	return account.ID, nil
}

// FindByEmail returns the stored account or sentinel.ErrNotFound.
func (s *PostgresIssuer) FindByEmail(ctx context.Context, email string) (Account, error) {
	var (
		a     Account
		rawID string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, email, password_hash, display_name, first_name, last_name, role, created_at
		FROM accounts WHERE lower(email) = $1
	`, emailKey(email)).Scan(&rawID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.FirstName, &a.LastName, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("find account: %w", err)
	}
	a.ID, err = id.ParseUserID(rawID)
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("insert account: %w", sentinel.ErrConflict)
	}
	return fmt.Errorf("insert account: %w", err)
}
