package wizard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agora/internal/registration/models"
	"agora/internal/registration/validation"
	id "agora/pkg/domain"
	dErrors "agora/pkg/domain-errors"
)

type WizardSuite struct {
	suite.Suite
	wizard *Wizard
	flow   models.Flow
	now    time.Time
}

func TestWizardSuite(t *testing.T) {
	suite.Run(t, new(WizardSuite))
}

func (s *WizardSuite) SetupTest() {
	s.now = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	s.flow = models.Flow{
		Name:              models.FlowStudent,
		Role:              models.RoleStudent,
		MinPasswordLength: 8,
		MinimumAge:        18,
		SignInURL:         "/login",
		RedirectDelay:     3 * time.Second,
	}
	s.wizard = New(id.NewDraftID(), s.flow, WithClock(func() time.Time { return s.now }))
}

func (s *WizardSuite) set(kind validation.FieldKind, value string) validation.Result {
	res, err := s.wizard.Set(kind, value)
	s.Require().NoError(err)
	return res
}

func (s *WizardSuite) fillPersonal() {
	s.set(validation.FieldFirstName, "Jane")
	s.set(validation.FieldLastName, "Doe")
	s.set(validation.FieldEmail, "jane@uni.ac.uk")
	s.set(validation.FieldPassword, "correct-horse")
	s.set(validation.FieldConfirmPassword, "correct-horse")
	s.set(validation.FieldDateOfBirth, "2000-05-01")
	s.set(validation.FieldCallingCode, "+44")
	s.set(validation.FieldPhone, "7700 900123")
	s.set(validation.FieldAffiliation, "Imperial College")
	s.set(validation.FieldCourse, "Computing")
}

func (s *WizardSuite) advance() Transition {
	tr, err := s.wizard.Advance()
	s.Require().NoError(err)
	return tr
}

func (s *WizardSuite) toVerification() {
	s.fillPersonal()
	s.Require().False(s.advance().Blocked())
	_, err := s.wizard.SetCapabilities([]string{"Tutoring", " essay-review ", "tutoring"})
	s.Require().NoError(err)
	s.Require().False(s.advance().Blocked())
	s.Require().Equal(StepVerification, s.wizard.CurrentStep())
}

func (s *WizardSuite) TestInitialState() {
	s.Equal(StateEditing, s.wizard.State())
	s.Equal(StepPersonal, s.wizard.CurrentStep())
	s.Equal(StepInProgress, s.wizard.StepStatus(StepPersonal))
	s.Equal(StepUntouched, s.wizard.StepStatus(StepCapabilities))
	s.Equal(StepUntouched, s.wizard.StepStatus(StepVerification))
	s.Equal(3, s.wizard.TotalSteps())
}

// TestAdvance_BlockedByValidation verifies advance never moves past a step
// with an invalid required field.
func (s *WizardSuite) TestAdvance_BlockedByValidation() {
	s.Run("empty step reports the first required field", func() {
		tr := s.advance()
		s.True(tr.Blocked())
		s.Equal(StepPersonal, s.wizard.CurrentStep())
		s.Equal(&FieldError{Field: validation.FieldFirstName, Code: validation.CodeRequired}, s.wizard.LastError())
	})

	s.Run("mismatched confirmation blocks with field mismatch", func() {
		s.fillPersonal()
		s.set(validation.FieldConfirmPassword, "correct-horse-2")

		tr := s.advance()
		s.True(tr.Blocked())
		s.Equal(validation.FieldConfirmPassword, tr.Error.Field)
		s.Equal(validation.CodeFieldMismatch, tr.Error.Code)
		s.Equal(StepPersonal, s.wizard.CurrentStep())
		s.Equal(StepInProgress, s.wizard.StepStatus(StepPersonal))
	})

	s.Run("format error outranks mismatch and underage", func() {
		s.fillPersonal()
		s.set(validation.FieldConfirmPassword, "something-else")
		s.set(validation.FieldDateOfBirth, "2010-01-01")
		s.set(validation.FieldEmail, "jane@@uni.ac.uk")

		tr := s.advance()
		s.Equal(&FieldError{Field: validation.FieldEmail, Code: validation.CodeMissingDomain}, tr.Error)
	})

	s.Run("mismatch outranks underage", func() {
		s.fillPersonal()
		s.set(validation.FieldConfirmPassword, "something-else")
		s.set(validation.FieldDateOfBirth, "2010-01-01")

		tr := s.advance()
		s.Equal(validation.CodeFieldMismatch, tr.Error.Code)
	})

	s.Run("underage blocks with dedicated code", func() {
		s.fillPersonal()
		s.set(validation.FieldDateOfBirth, "2008-10-19")

		tr := s.advance()
		s.Equal(&FieldError{Field: validation.FieldDateOfBirth, Code: validation.CodeUnderage}, tr.Error)
	})
}

func (s *WizardSuite) TestAdvance_PasswordMinimumFollowsFlow() {
	s.fillPersonal()
	s.set(validation.FieldPassword, "abc123")
	s.set(validation.FieldConfirmPassword, "abc123")
	s.Equal(validation.CodeTooShort, s.advance().Error.Code)

	provider := s.flow
	provider.Name = models.FlowProvider
	provider.MinPasswordLength = 6
	s.wizard = New(id.NewDraftID(), provider, WithClock(func() time.Time { return s.now }))
	s.fillPersonal()
	s.set(validation.FieldPassword, "abc123")
	s.set(validation.FieldConfirmPassword, "abc123")
	s.False(s.advance().Blocked())
}

func (s *WizardSuite) TestAdvance_MultiBytePasswordOverByteLimit() {
	s.fillPersonal()
	long := strings.Repeat("é", 40)
	s.Equal(validation.CodeTooLong, s.set(validation.FieldPassword, long).Code())
	s.set(validation.FieldConfirmPassword, long)

	tr := s.advance()
	s.True(tr.Blocked())
	s.Equal(&FieldError{Field: validation.FieldPassword, Code: validation.CodeTooLong}, tr.Error)
	s.Equal(StepPersonal, s.wizard.CurrentStep())
}

func (s *WizardSuite) TestAdvance_MovesForwardAndMarksPassed() {
	s.fillPersonal()
	tr := s.advance()

	s.False(tr.Blocked())
	s.Equal(StepPersonal, tr.From)
	s.Equal(StepCapabilities, tr.To)
	s.Equal(StepPassed, s.wizard.StepStatus(StepPersonal))
	s.Equal(StepInProgress, s.wizard.StepStatus(StepCapabilities))
	s.Nil(tr.Submission)
}

func (s *WizardSuite) TestConditionalRequiredness() {
	s.False(s.wizard.Required().Has(validation.FieldAffiliationOther))

	s.set(validation.FieldAffiliation, validation.AffiliationOther)
	s.True(s.wizard.Required().Has(validation.FieldAffiliationOther))

	s.fillPersonal()
	s.set(validation.FieldAffiliation, validation.AffiliationOther)
	s.Equal(&FieldError{Field: validation.FieldAffiliationOther, Code: validation.CodeRequired}, s.advance().Error)

	s.set(validation.FieldAffiliation, "Imperial College")
	s.False(s.wizard.Required().Has(validation.FieldAffiliationOther))
	s.False(s.advance().Blocked())
}

func (s *WizardSuite) TestSet_LiveResult() {
	s.Equal(validation.CodeConsecutiveDots, s.set(validation.FieldEmail, "a..b@x.com").Code())
	s.True(s.set(validation.FieldEmail, "a.b@x.com").OK())

	_, err := s.wizard.Set(validation.FieldBio, "on the wrong step")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *WizardSuite) TestRetreat() {
	s.Run("on first step is a no-op that never fails", func() {
		s.Require().NoError(s.wizard.Retreat())
		s.Equal(StepPersonal, s.wizard.CurrentStep())
	})

	s.Run("keeps data and requires revalidation", func() {
		s.fillPersonal()
		s.advance()
		s.Require().NoError(s.wizard.Retreat())

		s.Equal(StepPersonal, s.wizard.CurrentStep())
		s.Equal(StepInProgress, s.wizard.StepStatus(StepPersonal))
		s.Equal("jane@uni.ac.uk", s.wizard.Draft().Email)

		s.set(validation.FieldEmail, "jane@")
		s.True(s.advance().Blocked())
		s.Equal(StepPersonal, s.wizard.CurrentStep())
	})
}

func (s *WizardSuite) TestSubmission() {
	s.toVerification()

	s.Run("terms must be accepted", func() {
		tr := s.advance()
		s.Equal(&FieldError{Field: validation.FieldTermsAccepted, Code: validation.CodeRequired}, tr.Error)
	})

	s.Run("invalid artifact blocks submission", func() {
		_, err := s.wizard.AttachArtifact(models.Artifact{
			Category:    models.ArtifactIdentityDocument,
			Filename:    "id.exe",
			ContentType: "application/octet-stream",
			Data:        []byte("MZ"),
		})
		s.Require().NoError(err)
		s.set(validation.FieldTermsAccepted, "true")

		tr := s.advance()
		s.Equal(&FieldError{Field: validation.FieldArtifact, Code: validation.CodeFormatInvalid}, tr.Error)
	})

	s.Run("final advance freezes a copy of the draft", func() {
		_, err := s.wizard.AttachArtifact(models.Artifact{
			Category:    models.ArtifactIdentityDocument,
			Filename:    "passport.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.7"),
		})
		s.Require().NoError(err)

		tr := s.advance()
		s.Require().NotNil(tr.Submission)
		s.Equal(StateSubmitting, s.wizard.State())
		s.Equal([]string{"tutoring", "essay-review"}, tr.Submission.Capabilities)

		tr.Submission.Email = "mutated@x.com"
		s.Equal("jane@uni.ac.uk", s.wizard.Draft().Email)
	})

	s.Run("no edits or navigation while submitting", func() {
		_, err := s.wizard.Set(validation.FieldTermsAccepted, "false")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.True(dErrors.HasCode(s.wizard.Retreat(), dErrors.CodeInvalidState))
		_, err = s.wizard.Advance()
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *WizardSuite) TestTermsAccepted_LiveResultUsesInput() {
	s.toVerification()

	s.Equal(validation.CodeFormatInvalid, s.set(validation.FieldTermsAccepted, "yes").Code())
	s.False(s.wizard.Draft().TermsAccepted)

	s.Equal(validation.CodeRequired, s.set(validation.FieldTermsAccepted, "false").Code())
	s.Equal(validation.CodeRequired, s.advance().Error.Code)

	s.True(s.set(validation.FieldTermsAccepted, " true ").OK())
	s.True(s.wizard.Draft().TermsAccepted)
}

func (s *WizardSuite) TestTerminalStates() {
	s.Run("success schedules redirect and drops secrets", func() {
		s.SetupTest()
		s.toVerification()
		s.set(validation.FieldTermsAccepted, "true")
		s.advance()

		s.Require().NoError(s.wizard.Succeed())
		s.Equal(StateSucceeded, s.wizard.State())
		s.Equal(&Redirect{URL: "/login", After: 3 * time.Second}, s.wizard.Redirect())
		s.Empty(s.wizard.Draft().Password)
		s.Error(s.wizard.Retreat())
	})

	s.Run("failure stays on verification and allows retry", func() {
		s.SetupTest()
		s.toVerification()
		s.set(validation.FieldTermsAccepted, "true")
		s.advance()

		s.Require().NoError(s.wizard.Fail("identity provider unavailable"))
		s.Equal(StateFailed, s.wizard.State())
		s.Equal(StepVerification, s.wizard.CurrentStep())
		s.Equal("identity provider unavailable", s.wizard.Failure())

		tr := s.advance()
		s.NotNil(tr.Submission)
		s.Equal(StateSubmitting, s.wizard.State())
		s.Empty(s.wizard.Failure())
	})

	s.Run("editing after a failure clears the reason", func() {
		s.SetupTest()
		s.toVerification()
		s.set(validation.FieldTermsAccepted, "true")
		s.advance()
		s.Require().NoError(s.wizard.Fail("identity provider unavailable"))

		s.set(validation.FieldTermsAccepted, "true")
		s.Equal(StateEditing, s.wizard.State())
		s.Empty(s.wizard.Failure())
		s.Empty(s.wizard.Snapshot().Failure)
	})

	s.Run("terminal transitions require submitting", func() {
		s.SetupTest()
		s.True(dErrors.HasCode(s.wizard.Succeed(), dErrors.CodeInvalidState))
		s.True(dErrors.HasCode(s.wizard.Fail("x"), dErrors.CodeInvalidState))
	})
}

func (s *WizardSuite) TestSnapshotRoundTrip() {
	s.fillPersonal()
	s.advance()

	restored, err := Restore(s.wizard.Snapshot(), s.flow, WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
	s.Equal(s.wizard.ID(), restored.ID())
	s.Equal(StepCapabilities, restored.CurrentStep())
	s.Equal(StepPassed, restored.StepStatus(StepPersonal))
	s.Equal(s.wizard.Draft(), restored.Draft())

	other := s.flow
	other.Name = models.FlowProvider
	_, err = Restore(s.wizard.Snapshot(), other)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
