// Package wizard drives role-specific profile completion through one linear
// step sequencer. Each role has a table of steps and each step a gate that must
// pass before the next one becomes reachable.
package wizard

import (
	"fmt"

	"github.com/dtroode/glowbook-server/internal/model"
)

// Step is one screen of a profile flow.
type Step struct {
	ID             string
	Title          string
	RequiredFields []string
	Validate       func(model.ProfileData) []model.FieldError
}

// Flow is the ordered step table of a role.
type Flow struct {
	Role  model.Role
	Steps []Step
}

// For returns the flow of the role.
func For(role model.Role) (Flow, error) {
	f, ok := flows[role]
	if !ok {
		return Flow{}, fmt.Errorf("no profile flow for role %q", role)
	}
	return f, nil
}

// Last returns the index of the final step.
func (f Flow) Last() int {
	return len(f.Steps) - 1
}

// StepID returns the id of step i, or "" if out of range.
func (f Flow) StepID(i int) string {
	if i < 0 || i >= len(f.Steps) {
		return ""
	}
	return f.Steps[i].ID
}

// Check applies the gate of step i to data. It returns nil when the step passes.
func (f Flow) Check(i int, data model.ProfileData) *model.ValidationError {
	if i < 0 || i >= len(f.Steps) {
		return &model.ValidationError{Kind: model.ErrInvalidField, Fields: []model.FieldError{{Field: "step", Message: "does not exist"}}}
	}
	if data == nil || data.Role() != f.Role {
		return &model.ValidationError{
			Kind:   model.ErrInvalidRole,
			Step:   f.Steps[i].ID,
			Fields: []model.FieldError{{Field: "role", Message: fmt.Sprintf("profile must be for role %s", f.Role)}},
		}
	}
	fields := f.Steps[i].Validate(data)
	if len(fields) == 0 {
		return nil
	}
	return &model.ValidationError{Kind: model.ErrIncompleteStep, Step: f.Steps[i].ID, Fields: fields}
}

// CheckThrough applies the gates of steps 0..i in order and reports the first failure.
func (f Flow) CheckThrough(i int, data model.ProfileData) *model.ValidationError {
	for s := 0; s <= i && s < len(f.Steps); s++ {
		if err := f.Check(s, data); err != nil {
			return err
		}
	}
	return nil
}

// Advance moves the draft past its current step if that step's gate passes.
// from is the step the caller believes is active; a mismatch means the caller
// is acting on an outdated view and nothing changes.
func (f Flow) Advance(draft *model.ProfileDraft, from string) error {
	if err := f.ensureActive(draft, from); err != nil {
		return err
	}
	if err := f.Check(draft.Step, draft.Data); err != nil {
		return err
	}
	if draft.Step < f.Last() {
		draft.Step++
	}
	return nil
}

// Back moves the draft one step back. Entered values are untouched.
func (f Flow) Back(draft *model.ProfileDraft, from string) error {
	if err := f.ensureActive(draft, from); err != nil {
		return err
	}
	if draft.Step > 0 {
		draft.Step--
	}
	return nil
}

func (f Flow) ensureActive(draft *model.ProfileDraft, from string) error {
	if draft.Role != f.Role {
		return model.NewValidationError(model.ErrInvalidRole, model.FieldError{Field: "role", Message: "does not match account"})
	}
	if f.StepID(draft.Step) != from {
		return fmt.Errorf("%w: active step is %q", model.ErrStaleStep, f.StepID(draft.Step))
	}
	return nil
}

// typed adapts a validator for one concrete draft type.
func typed[P model.ProfileData](fn func(P) []model.FieldError) func(model.ProfileData) []model.FieldError {
	return func(data model.ProfileData) []model.FieldError {
		p, ok := data.(P)
		if !ok {
			return []model.FieldError{{Field: "role", Message: "profile does not match role"}}
		}
		return fn(p)
	}
}
