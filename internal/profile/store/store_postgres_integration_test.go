//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"agora/internal/identity/password"
	identitystore "agora/internal/identity/store"
	"agora/internal/profile/store"
	"agora/internal/registration/models"
	"agora/internal/registration/provisioning"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
	"agora/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	issuer  *identitystore.PostgresIssuer
	profile *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.issuer = identitystore.NewPostgresIssuer(s.pg.Pool, password.Hasher{Cost: bcrypt.MinCost})
	s.profile = store.NewPostgresStore(s.pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background()))
}

func (s *PostgresStoreSuite) newAccount() id.UserID {
	userID, err := s.issuer.CreateAccount(context.Background(), "jane@uni.ac.uk", "s3cretpass", provisioning.AccountAttributes{
		DisplayName: "Jane Doe",
		Role:        models.RoleStudent,
	})
	s.Require().NoError(err)
	return userID
}

func (s *PostgresStoreSuite) TestUpdateContact() {
	ctx := context.Background()
	owner := s.newAccount()

	s.Require().NoError(s.profile.Update(ctx, owner, provisioning.ContactUpdate{Phone: "7700900123", CallingCode: "+44"}))

	var phone string
	s.Require().NoError(s.pg.Pool.QueryRow(ctx, `SELECT phone FROM profiles WHERE account_id = $1`, owner.String()).Scan(&phone))
	s.Equal("7700900123", phone)

	err := s.profile.Update(ctx, id.NewUserID(), provisioning.ContactUpdate{Phone: "1"})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestInsertDocumentRecord() {
	ctx := context.Background()
	owner := s.newAccount()
	record := provisioning.DocumentRecord{
		ID:          id.NewDocumentID(),
		OwnerID:     owner,
		Category:    models.ArtifactEnrollmentProof,
		StorageKey:  "documents/" + owner.String() + "/enrollment_proof-1.pdf",
		Filename:    "letter.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		Status:      provisioning.VerificationPending,
		UploadedAt:  time.Now().UTC(),
	}
	s.Require().NoError(s.profile.InsertDocumentRecord(ctx, record))

	record.ID = id.NewDocumentID()
	s.ErrorIs(s.profile.InsertDocumentRecord(ctx, record), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestCreateRoleProfileIsAtomic() {
	ctx := context.Background()
	owner := s.newAccount()

	err := s.profile.CreateRoleProfile(ctx, owner, provisioning.RoleProfile{
		Role:         models.RoleStudent,
		Affiliation:  "Open University",
		Course:       "Physics",
		Capabilities: []string{"tutoring", "mentoring", "tutoring"},
		DateOfBirth:  "2000-01-01",
	})
	s.Require().NoError(err)

	var tags int
	s.Require().NoError(s.pg.Pool.QueryRow(ctx, `SELECT count(*) FROM role_profile_capabilities WHERE account_id = $1`, owner.String()).Scan(&tags))
	s.Equal(2, tags)

	// A second call fails as a whole and leaves the first profile untouched.
	err = s.profile.CreateRoleProfile(ctx, owner, provisioning.RoleProfile{Role: models.RoleStudent, Capabilities: []string{"new-tag"}})
	s.ErrorIs(err, sentinel.ErrConflict)
	s.Require().NoError(s.pg.Pool.QueryRow(ctx, `SELECT count(*) FROM role_profile_capabilities WHERE account_id = $1`, owner.String()).Scan(&tags))
	s.Equal(2, tags)
}
