package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/wizard"
)

// Account is the account view returned by the API.
type Account struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            string    `json:"role" enum:"client,professional-service,professional-vendor"`
	EmailVerified   bool      `json:"emailVerified"`
	ProfileComplete bool      `json:"profileComplete"`
}

func toAccount(s model.AccountSnapshot) Account {
	return Account{
		ID:              s.ID,
		Email:           s.Email,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Role:            string(s.Role),
		EmailVerified:   s.EmailVerified,
		ProfileComplete: s.ProfileComplete,
	}
}

// Session carries the tokens of an established session.
type Session struct {
	SessionID       uuid.UUID `json:"sessionId"`
	TokenType       string    `json:"tokenType" example:"Bearer"`
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
	RefreshToken    string    `json:"refreshToken"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Account         Account   `json:"account"`
}

func toSession(s model.EstablishedSession) Session {
	return Session{
		SessionID:       s.Session.ID,
		TokenType:       "Bearer",
		AccessToken:     s.AccessToken,
		AccessExpiresAt: s.AccessExpiresAt,
		RefreshToken:    s.RefreshToken,
		ExpiresAt:       s.Session.ExpiresAt,
		Account:         toAccount(s.Session.Account),
	}
}

// ProfileFields is the union of the role-specific profile fields. Only the
// fields of the account's role are read. Document references are filled in by
// uploads and any value sent for them is ignored.
type ProfileFields struct {
	Phone                   string              `json:"phone,omitempty"`
	Location                string              `json:"location,omitempty"`
	Bio                     string              `json:"bio,omitempty" maxLength:"500"`
	Preferences             []string            `json:"preferences,omitempty"`
	BusinessName            string              `json:"businessName,omitempty"`
	Categories              []string            `json:"categories,omitempty"`
	YearsExperience         *int                `json:"yearsExperience,omitempty"`
	ServiceArea             string              `json:"serviceArea,omitempty"`
	CategoryPhotos          map[string][]string `json:"categoryPhotos,omitempty" readOnly:"true"`
	IdentityDocumentID      string              `json:"identityDocumentId,omitempty" readOnly:"true"`
	BusinessProofDocumentID string              `json:"businessProofDocumentId,omitempty" readOnly:"true"`
}

// profileData builds the typed profile of role from the submitted fields.
func (f ProfileFields) profileData(role model.Role) (model.ProfileData, error) {
	switch role {
	case model.RoleClient:
		return &model.ClientProfile{
			Phone:       f.Phone,
			Location:    f.Location,
			Bio:         f.Bio,
			Preferences: f.Preferences,
		}, nil
	case model.RoleServiceProvider:
		return &model.ServiceProfile{
			BusinessName:       f.BusinessName,
			Phone:              f.Phone,
			Categories:         f.Categories,
			YearsExperience:    f.YearsExperience,
			ServiceArea:        f.ServiceArea,
			IdentityDocumentID: f.IdentityDocumentID,
		}, nil
	case model.RoleVendor:
		photos := f.CategoryPhotos
		if photos == nil {
			photos = map[string][]string{}
		}
		return &model.VendorProfile{
			BusinessName:            f.BusinessName,
			Phone:                   f.Phone,
			ServiceArea:             f.ServiceArea,
			Categories:              f.Categories,
			CategoryPhotos:          photos,
			IdentityDocumentID:      f.IdentityDocumentID,
			BusinessProofDocumentID: f.BusinessProofDocumentID,
		}, nil
	default:
		return nil, model.NewValidationError(model.ErrInvalidRole,
			model.FieldError{Field: "role", Message: "must be one of client, professional-service, professional-vendor"})
	}
}

func toProfileFields(data model.ProfileData) ProfileFields {
	switch p := data.(type) {
	case *model.ClientProfile:
		return ProfileFields{Phone: p.Phone, Location: p.Location, Bio: p.Bio, Preferences: p.Preferences}
	case *model.ServiceProfile:
		return ProfileFields{
			BusinessName:       p.BusinessName,
			Phone:              p.Phone,
			Categories:         p.Categories,
			YearsExperience:    p.YearsExperience,
			ServiceArea:        p.ServiceArea,
			IdentityDocumentID: p.IdentityDocumentID,
		}
	case *model.VendorProfile:
		return ProfileFields{
			BusinessName:            p.BusinessName,
			Phone:                   p.Phone,
			ServiceArea:             p.ServiceArea,
			Categories:              p.Categories,
			CategoryPhotos:          p.CategoryPhotos,
			IdentityDocumentID:      p.IdentityDocumentID,
			BusinessProofDocumentID: p.BusinessProofDocumentID,
		}
	default:
		return ProfileFields{}
	}
}

// Step describes one wizard step.
type Step struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	RequiredFields []string `json:"requiredFields,omitempty"`
}

// Draft is the in-progress profile of an account.
type Draft struct {
	AccountID uuid.UUID     `json:"accountId"`
	Role      string        `json:"role"`
	Step      int           `json:"step"`
	StepID    string        `json:"stepId"`
	Steps     []Step        `json:"steps"`
	Profile   ProfileFields `json:"profile"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func toDraft(d model.ProfileDraft) Draft {
	out := Draft{
		AccountID: d.AccountID,
		Role:      string(d.Role),
		Step:      d.Step,
		Profile:   toProfileFields(d.Data),
		UpdatedAt: d.UpdatedAt,
	}
	if flow, err := wizard.For(d.Role); err == nil {
		out.StepID = flow.StepID(d.Step)
		for _, s := range flow.Steps {
			out.Steps = append(out.Steps, Step{ID: s.ID, Title: s.Title, RequiredFields: s.RequiredFields})
		}
	}
	return out
}

// Document is uploaded document metadata.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category,omitempty"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toDocument(d model.Document) Document {
	return Document{
		ID:          d.ID,
		Kind:        string(d.Kind),
		Category:    d.Category,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}

// SignupInput is the body of POST /v1/signup.
type SignupInput struct {
	Body struct {
		Email           string `json:"email" maxLength:"254" doc:"Email address" example:"a@b.com"`
		Password        string `json:"password" doc:"Password, at least 8 characters"`
		ConfirmPassword string `json:"confirmPassword"`
		FirstName       string `json:"firstName" maxLength:"100"`
		LastName        string `json:"lastName" maxLength:"100"`
		Role            string `json:"role" doc:"client, professional-service or professional-vendor" example:"client"`
	}
}

// SignupOutput reports the created account and whether the verification email went out.
type SignupOutput struct {
	Location string `header:"Location"`
	Body     struct {
		Account               Account    `json:"account"`
		VerificationEmailSent bool       `json:"verificationEmailSent"`
		VerificationExpiresAt *time.Time `json:"verificationExpiresAt,omitempty"`
	}
}

// ResendInput is the body of POST /v1/verification/resend.
type ResendInput struct {
	Body struct {
		AccountID string `json:"accountId" format:"uuid"`
	}
}

// ResendOutput reports the resent verification.
type ResendOutput struct {
	Body struct {
		ExpiresAt time.Time `json:"expiresAt"`
	}
}

// ConfirmInput is the body of POST /v1/verification/confirm.
type ConfirmInput struct {
	Body struct {
		Token string `json:"token" minLength:"1"`
	}
}

// ConfirmQueryInput is the query of GET /v1/verification/confirm.
type ConfirmQueryInput struct {
	Token string `query:"token" required:"true"`
}

// AccountOutput returns an account.
type AccountOutput struct {
	Body Account
}

// AccountPath addresses an onboarding account.
type AccountPath struct {
	AccountID string `path:"accountId" format:"uuid"`
}

// DraftOutput returns a profile draft.
type DraftOutput struct {
	Body Draft
}

// SaveDraftInput is the body of PUT .../profile.
type SaveDraftInput struct {
	AccountPath
	Body struct {
		Role    string        `json:"role"`
		Profile ProfileFields `json:"profile"`
	}
}

// StepInput moves the wizard from the step the client is showing.
type StepInput struct {
	AccountPath
	Body struct {
		Role     string         `json:"role"`
		FromStep string         `json:"fromStep" minLength:"1"`
		Profile  *ProfileFields `json:"profile,omitempty" doc:"Edits to store before moving"`
	}
}

// SubmitInput completes the profile.
type SubmitInput struct {
	AccountPath
	Body struct {
		Role    string        `json:"role"`
		Profile ProfileFields `json:"profile"`
	}
}

// SkipInput completes a client profile without optional fields.
type SkipInput struct {
	AccountPath
}

// CompletionOutput returns the completed account and its session.
type CompletionOutput struct {
	Body struct {
		Account Account `json:"account"`
		Session Session `json:"session"`
	}
}

// UploadInput is a raw document upload.
type UploadInput struct {
	AccountPath
	Kind        string `query:"kind" required:"true" enum:"portfolio_photo,identity,business_proof"`
	Category    string `query:"category"`
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

// DocumentOutput returns document metadata.
type DocumentOutput struct {
	Location string `header:"Location"`
	Body     Document
}

// DocumentListOutput returns the documents of an account.
type DocumentListOutput struct {
	Body struct {
		Documents []Document `json:"documents"`
	}
}

// DownloadInput addresses one document.
type DownloadInput struct {
	AccountPath
	DocumentID string `path:"documentId" format:"uuid"`
}

// DownloadOutput streams document content.
type DownloadOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// LoginInput is the body of POST /v1/sessions.
type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email"`
		Password string `json:"password" minLength:"1"`
	}
}

// RefreshInput is the body of POST /v1/sessions/refresh.
type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refreshToken" minLength:"1"`
	}
}

// SessionOutput returns an established session.
type SessionOutput struct {
	Body Session
}

// MeOutput returns the account bound to the current session.
type MeOutput struct {
	Body struct {
		SessionID uuid.UUID `json:"sessionId"`
		ExpiresAt time.Time `json:"expiresAt"`
		Account   Account   `json:"account"`
	}
}
