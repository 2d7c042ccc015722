package provisioning

import (
	"context"
	"time"

	"agora/internal/registration/models"
	id "agora/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// IdentityIssuer creates account records. Implementations must reject
// malformed credentials on their own, independent of wizard validation.
type IdentityIssuer interface {
	CreateAccount(ctx context.Context, email, password string, attrs AccountAttributes) (id.UserID, error)
}

// BlobStore stores binary payloads under caller-chosen keys. It does not
// deduplicate.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// ProfileStore writes structured profile records. CreateRoleProfile must be
// a single remote call that is atomic on the far side.
type ProfileStore interface {
	Update(ctx context.Context, userID id.UserID, fields ContactUpdate) error
	InsertDocumentRecord(ctx context.Context, record DocumentRecord) error
	CreateRoleProfile(ctx context.Context, userID id.UserID, profile RoleProfile) error
}

// AccountAttributes are stored with the identity record.
type AccountAttributes struct {
	DisplayName string
	FirstName   string
	LastName    string
	Role        models.Role
}

// ContactUpdate is applied to the identity's profile row.
type ContactUpdate struct {
	Phone       string
	CallingCode string
}

// VerificationStatus of an uploaded document.
type VerificationStatus string

const VerificationPending VerificationStatus = "pending"

// DocumentRecord is the metadata row written after a successful upload.
type DocumentRecord struct {
	ID          id.DocumentID
	OwnerID     id.UserID
	Category    models.ArtifactCategory
	StorageKey  string
	Filename    string
	ContentType string
	SizeBytes   int64
	Status      VerificationStatus
	UploadedAt  time.Time
}

// RoleProfile is everything the role-specific profile needs, created in one call.
type RoleProfile struct {
	Role         models.Role
	Affiliation  string
	Course       string
	Capabilities []string
	Bio          string
	Availability string
	DateOfBirth  string
}
