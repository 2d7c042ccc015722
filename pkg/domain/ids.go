// Package domain holds typed identifiers shared across modules.
//
// Each identifier is a distinct named uuid.UUID so the compiler rejects
// passing a document id where a user id is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "agora/pkg/domain-errors"
)

type (
	UserID     uuid.UUID
	DraftID    uuid.UUID
	DocumentID uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id DraftID) String() string    { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DraftID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id DraftID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id DocumentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DraftID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DocumentID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func NewUserID() UserID         { return UserID(uuid.New()) }
func NewDraftID() DraftID       { return DraftID(uuid.New()) }
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// ParseUserID parses a non-nil user id.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseDraftID parses a non-nil registration draft id.
func ParseDraftID(s string) (DraftID, error) {
	u, err := parseUUID(s, "draft id")
	return DraftID(u), err
}

// ParseDocumentID parses a non-nil document id.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document id")
	return DocumentID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
