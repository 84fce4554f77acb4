package wizard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dtroode/glowbook-server/internal/model"
)

const maxYearsExperience = 80

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)

var flows = map[model.Role]Flow{
	model.RoleClient: {
		Role: model.RoleClient,
		Steps: []Step{
			{ID: "details", Title: "About you", Validate: typed(validateClient)},
		},
	},
	model.RoleServiceProvider: {
		Role: model.RoleServiceProvider,
		Steps: []Step{
			{
				ID:             "business",
				Title:          "Business information",
				RequiredFields: []string{"businessName", "phone"},
				Validate: typed(func(p *model.ServiceProfile) []model.FieldError {
					return business(p.BusinessName, p.Phone)
				}),
			},
			{
				ID:             "categories",
				Title:          "Services offered",
				RequiredFields: []string{"categories"},
				Validate: typed(func(p *model.ServiceProfile) []model.FieldError {
					return categories(p.Categories)
				}),
			},
			{
				ID:             "experience",
				Title:          "Experience and service area",
				RequiredFields: []string{"yearsExperience", "serviceArea"},
				Validate:       typed(validateExperience),
			},
			{
				ID:             "verification",
				Title:          "Identity verification",
				RequiredFields: []string{"identityDocumentId"},
				Validate: typed(func(p *model.ServiceProfile) []model.FieldError {
					return required(nil, "identityDocumentId", p.IdentityDocumentID, "upload an identity document")
				}),
			},
		},
	},
	model.RoleVendor: {
		Role: model.RoleVendor,
		Steps: []Step{
			{
				ID:             "business",
				Title:          "Business information",
				RequiredFields: []string{"businessName", "phone", "serviceArea"},
				Validate: typed(func(p *model.VendorProfile) []model.FieldError {
					errs := business(p.BusinessName, p.Phone)
					return required(errs, "serviceArea", p.ServiceArea, "is required")
				}),
			},
			{
				ID:             "categories",
				Title:          "Product categories",
				RequiredFields: []string{"categories"},
				Validate: typed(func(p *model.VendorProfile) []model.FieldError {
					return categories(p.Categories)
				}),
			},
			{
				ID:             "portfolio",
				Title:          "Product photos",
				RequiredFields: []string{"categoryPhotos"},
				Validate:       typed(validatePortfolio),
			},
			{
				ID:             "verification",
				Title:          "Identity and business verification",
				RequiredFields: []string{"identityDocumentId", "businessProofDocumentId"},
				Validate: typed(func(p *model.VendorProfile) []model.FieldError {
					errs := required(nil, "identityDocumentId", p.IdentityDocumentID, "upload an identity document")
					return required(errs, "businessProofDocumentId", p.BusinessProofDocumentID, "upload a proof of business")
				}),
			},
		},
	},
}

func validateClient(p *model.ClientProfile) []model.FieldError {
	var errs []model.FieldError
	if p.Phone != "" && !phonePattern.MatchString(p.Phone) {
		errs = append(errs, model.FieldError{Field: "phone", Message: "is not a valid phone number"})
	}
	if utf8.RuneCountInString(p.Bio) > model.MaxBioLength {
		errs = append(errs, model.FieldError{Field: "bio", Message: fmt.Sprintf("must be at most %d characters", model.MaxBioLength)})
	}
	for i, pref := range p.Preferences {
		if strings.TrimSpace(pref) == "" {
			errs = append(errs, model.FieldError{Field: fmt.Sprintf("preferences[%d]", i), Message: "must not be blank"})
		}
	}
	return errs
}

func validateExperience(p *model.ServiceProfile) []model.FieldError {
	var errs []model.FieldError
	switch {
	case p.YearsExperience == nil:
		errs = append(errs, model.FieldError{Field: "yearsExperience", Message: "is required"})
	case *p.YearsExperience < 0 || *p.YearsExperience > maxYearsExperience:
		errs = append(errs, model.FieldError{Field: "yearsExperience", Message: fmt.Sprintf("must be between 0 and %d", maxYearsExperience)})
	}
	return required(errs, "serviceArea", p.ServiceArea, "is required")
}

func validatePortfolio(p *model.VendorProfile) []model.FieldError {
	var errs []model.FieldError
	for _, c := range p.Categories {
		if len(p.CategoryPhotos[c]) == 0 {
			errs = append(errs, model.FieldError{Field: "categoryPhotos." + c, Message: "add at least one photo"})
		}
	}
	return errs
}

func business(name, phone string) []model.FieldError {
	errs := required(nil, "businessName", name, "is required")
	switch {
	case strings.TrimSpace(phone) == "":
		errs = append(errs, model.FieldError{Field: "phone", Message: "is required"})
	case !phonePattern.MatchString(phone):
		errs = append(errs, model.FieldError{Field: "phone", Message: "is not a valid phone number"})
	}
	return errs
}

func categories(selected []string) []model.FieldError {
	if len(selected) == 0 {
		return []model.FieldError{{Field: "categories", Message: "select at least one category"}}
	}
	var errs []model.FieldError
	seen := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		if !model.IsKnownCategory(c) {
			errs = append(errs, model.FieldError{Field: "categories", Message: fmt.Sprintf("unknown category %q", c)})
			continue
		}
		if _, dup := seen[c]; dup {
			errs = append(errs, model.FieldError{Field: "categories", Message: fmt.Sprintf("duplicate category %q", c)})
		}
		seen[c] = struct{}{}
	}
	return errs
}

func required(errs []model.FieldError, field, value, msg string) []model.FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errs, model.FieldError{Field: field, Message: msg})
	}
	return errs
}
