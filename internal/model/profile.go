package model

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// MaxBioLength is the longest bio a client may enter, in characters.
const MaxBioLength = 500

// Categories lists the service categories professionals can select.
var Categories = []string{
	"hair",
	"nails",
	"makeup",
	"skincare",
	"lashes-brows",
	"massage",
	"barbering",
	"waxing",
}

// IsKnownCategory reports whether c is part of the category catalog.
func IsKnownCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// BusinessType distinguishes the two professional sub-flows.
type BusinessType string

const (
	BusinessTypeService BusinessType = "service"
	BusinessTypeVendor  BusinessType = "vendor"
)

// ProfileData is the role-specific profile. Implemented by *ClientProfile,
// *ServiceProfile and *VendorProfile only.
type ProfileData interface {
	Role() Role
}

// ClientProfile holds the optional client fields.
type ClientProfile struct {
	Phone       string   `json:"phone,omitempty"`
	Location    string   `json:"location,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

func (*ClientProfile) Role() Role { return RoleClient }

// ServiceProfile holds the service provider fields.
type ServiceProfile struct {
	BusinessName       string   `json:"businessName,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	YearsExperience    *int     `json:"yearsExperience,omitempty"`
	ServiceArea        string   `json:"serviceArea,omitempty"`
	IdentityDocumentID string   `json:"identityDocumentId,omitempty"`
}

func (*ServiceProfile) Role() Role { return RoleServiceProvider }

// BusinessType returns the professional business type.
func (*ServiceProfile) BusinessType() BusinessType { return BusinessTypeService }

// VendorProfile holds the product vendor fields including KYC uploads.
type VendorProfile struct {
	BusinessName            string              `json:"businessName,omitempty"`
	Phone                   string              `json:"phone,omitempty"`
	ServiceArea             string              `json:"serviceArea,omitempty"`
	Categories              []string            `json:"categories,omitempty"`
	CategoryPhotos          map[string][]string `json:"categoryPhotos,omitempty"`
	IdentityDocumentID      string              `json:"identityDocumentId,omitempty"`
	BusinessProofDocumentID string              `json:"businessProofDocumentId,omitempty"`
}

func (*VendorProfile) Role() Role { return RoleVendor }

// BusinessType returns the professional business type.
func (*VendorProfile) BusinessType() BusinessType { return BusinessTypeVendor }

// NewProfileData returns an empty draft for the role.
func NewProfileData(role Role) (ProfileData, error) {
	switch role {
	case RoleClient:
		return &ClientProfile{}, nil
	case RoleServiceProvider:
		return &ServiceProfile{}, nil
	case RoleVendor:
		return &VendorProfile{CategoryPhotos: map[string][]string{}}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// DecodeProfileData unmarshals a stored profile using the role as the tag.
func DecodeProfileData(role Role, raw []byte) (ProfileData, error) {
	data, err := NewProfileData(role)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", role, err)
	}
	if v, ok := data.(*VendorProfile); ok && v.CategoryPhotos == nil {
		v.CategoryPhotos = map[string][]string{}
	}
	return data, nil
}

// EncodeProfileData marshals a profile for storage. A nil profile encodes to nil.
func EncodeProfileData(data ProfileData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s profile: %w", data.Role(), err)
	}
	return raw, nil
}

// ProfileDraftStore persists in-progress profile drafts.
type ProfileDraftStore interface {
	Get(ctx context.Context, accountID uuid.UUID) (ProfileDraft, error)
	Save(ctx context.Context, draft ProfileDraft) error
	Delete(ctx context.Context, accountID uuid.UUID) error
}

// ProfileDraft is the working set of profile fields for an account.
type ProfileDraft struct {
	AccountID uuid.UUID
	Role      Role
	Step      int
	Data      ProfileData
	CreatedAt time.Time
	UpdatedAt time.Time
}
