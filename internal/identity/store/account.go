// Package store holds the Identity Issuer backends. Both backends check the
// credentials again on their own rather than trusting the wizard's validation.
package store

import (
	"fmt"
	"strings"
	"time"

	"agora/internal/identity/password"
	"agora/internal/registration/provisioning"
	"agora/internal/registration/validation"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
)

// Account is the persisted identity record. The plaintext password is never kept.
type Account struct {
	ID           id.UserID
	Email        string
	PasswordHash string
	DisplayName  string
	FirstName    string
	LastName     string
	Role         string
	CreatedAt    time.Time
}

// newAccount validates the credentials and hashes the password.
func newAccount(hasher password.Hasher, email, plain string, attrs provisioning.AccountAttributes, now time.Time) (Account, error) {
	email = strings.TrimSpace(email)
	if res := validation.ValidateEmail(email); !res.OK() {
		return Account{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("email rejected: %s", res.Code()))
	}
	if len(plain) > validation.MaxPasswordLength {
		return Account{}, dErrors.New(dErrors.CodeInvalidInput, "password is too long")
	}
	if attrs.Role == "" {
		return Account{}, dErrors.New(dErrors.CodeInvalidInput, "role is required")
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		return Account{}, err
	}
	return Account{
		ID:           id.NewUserID(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  attrs.DisplayName,
		FirstName:    attrs.FirstName,
		LastName:     attrs.LastName,
		Role:         string(attrs.Role),
		CreatedAt:    now,
	}, nil
}

// emailKey is the case-insensitive uniqueness key.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
