package validation

// FieldKind identifies a registration field and selects its rule chain.
type FieldKind string

const (
	FieldFirstName        FieldKind = "first_name"
	FieldLastName         FieldKind = "last_name"
	FieldEmail            FieldKind = "email"
	FieldPassword         FieldKind = "password"
	FieldConfirmPassword  FieldKind = "confirm_password"
	FieldDateOfBirth      FieldKind = "date_of_birth"
	FieldCallingCode      FieldKind = "calling_code"
	FieldPhone            FieldKind = "phone"
	FieldAffiliation      FieldKind = "affiliation"
	FieldAffiliationOther FieldKind = "affiliation_other"
	FieldCourse           FieldKind = "course"
	FieldCapabilities     FieldKind = "capabilities"
	FieldBio              FieldKind = "bio"
	FieldAvailability     FieldKind = "availability"
	FieldTermsAccepted    FieldKind = "terms_accepted"
	FieldArtifact         FieldKind = "artifact"
)

// AffiliationOther is the selector value that makes FieldAffiliationOther required.
const AffiliationOther = "other"

const (
	DefaultMinPasswordLength = 8
	DefaultMinimumAge        = 18
	MaxPasswordLength        = 72 // bytes; bcrypt input limit
	MaxArtifactBytes         = 10 << 20
	MaxCapabilities          = 10
)

// ArtifactContentTypes lists the accepted upload media types.
var ArtifactContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}
