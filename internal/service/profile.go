package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/dtroode/glowbook-server/internal/obs"
	"github.com/dtroode/glowbook-server/internal/wizard"
)

// SessionEstablisher opens the session of a verified account.
type SessionEstablisher interface {
	Establish(ctx context.Context, account model.Account) (model.EstablishedSession, error)
}

// Profile walks verified accounts through role-specific profile completion.
//
// Document references in a profile are owned by the server: Documents.Upload
// records them in the draft, and edits sent by the caller never replace them.
type Profile struct {
	accountStore  model.AccountStore
	draftStore    model.ProfileDraftStore
	documentStore model.DocumentStore
	sessions      SessionEstablisher
	logger        *logger.Logger
	inflight      singleflight.Group
	now           func() time.Time
}

func NewProfile(
	accountStore model.AccountStore,
	draftStore model.ProfileDraftStore,
	documentStore model.DocumentStore,
	sessions SessionEstablisher,
	logger *logger.Logger,
) *Profile {
	return &Profile{
		accountStore:  accountStore,
		draftStore:    draftStore,
		documentStore: documentStore,
		sessions:      sessions,
		logger:        logger,
		now:           time.Now,
	}
}

// Draft returns the draft of the account, starting an empty one on first access.
func (p *Profile) Draft(ctx context.Context, accountID uuid.UUID) (model.ProfileDraft, error) {
	account, err := p.editableAccount(ctx, accountID)
	if err != nil {
		return model.ProfileDraft{}, err
	}
	return p.loadDraft(ctx, account)
}

// SaveDraft stores field edits without applying any step gate.
func (p *Profile) SaveDraft(ctx context.Context, accountID uuid.UUID, data model.ProfileData) (model.ProfileDraft, error) {
	account, err := p.editableAccount(ctx, accountID)
	if err != nil {
		return model.ProfileDraft{}, err
	}
	draft, err := p.loadDraft(ctx, account)
	if err != nil {
		return model.ProfileDraft{}, err
	}
	if err := p.apply(&draft, data); err != nil {
		return model.ProfileDraft{}, err
	}
	if err := p.saveDraft(ctx, &draft); err != nil {
		return model.ProfileDraft{}, err
	}
	return draft, nil
}

// Advance stores data and moves past fromStep when its gate passes. The edits are
// kept even when the gate rejects them.
func (p *Profile) Advance(ctx context.Context, accountID uuid.UUID, fromStep string, data model.ProfileData) (draft model.ProfileDraft, err error) {
	ctx, span := tracer.Start(ctx, "Profile.Advance")
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.String("wizard.from_step", fromStep))

	return p.transition(ctx, accountID, fromStep, data, wizard.Flow.Advance)
}

// Back stores data and moves one step before fromStep.
func (p *Profile) Back(ctx context.Context, accountID uuid.UUID, fromStep string, data model.ProfileData) (model.ProfileDraft, error) {
	return p.transition(ctx, accountID, fromStep, data, wizard.Flow.Back)
}

func (p *Profile) transition(
	ctx context.Context,
	accountID uuid.UUID,
	fromStep string,
	data model.ProfileData,
	move func(wizard.Flow, *model.ProfileDraft, string) error,
) (model.ProfileDraft, error) {
	account, err := p.editableAccount(ctx, accountID)
	if err != nil {
		return model.ProfileDraft{}, err
	}
	flow, err := wizard.For(account.Role)
	if err != nil {
		return model.ProfileDraft{}, err
	}
	draft, err := p.loadDraft(ctx, account)
	if err != nil {
		return model.ProfileDraft{}, err
	}

	if data != nil {
		if err := p.apply(&draft, data); err != nil {
			return model.ProfileDraft{}, err
		}
		if err := p.saveDraft(ctx, &draft); err != nil {
			return model.ProfileDraft{}, err
		}
	}

	if err := move(flow, &draft, fromStep); err != nil {
		p.logger.Debug("Profile service: transition rejected",
			"account_id", accountID,
			"from_step", fromStep,
			"error", err.Error())
		return draft, err
	}

	if err := ctx.Err(); err != nil {
		return model.ProfileDraft{}, err
	}
	if err := p.saveDraft(ctx, &draft); err != nil {
		return model.ProfileDraft{}, err
	}

	p.logger.Debug("Profile service: step changed",
		"account_id", accountID,
		"from_step", fromStep,
		"to_step", flow.StepID(draft.Step))

	return draft, nil
}

// Submit validates every step of role, commits the profile and establishes the session.
// Document references are taken from the draft and must resolve to uploads of the account.
//
// A failure to establish the session is reported after the profile is committed;
// the commit is never rolled back.
func (p *Profile) Submit(ctx context.Context, accountID uuid.UUID, role model.Role, data model.ProfileData) (res model.CompletionResult, err error) {
	ctx, span := tracer.Start(ctx, "Profile.Submit")
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.String("account.id", accountID.String()), attribute.String("account.role", string(role)))

	flow, err := wizard.For(role)
	if err != nil {
		return model.CompletionResult{}, model.NewValidationError(model.ErrInvalidRole,
			model.FieldError{Field: "role", Message: err.Error()})
	}
	if data == nil || data.Role() != role {
		return model.CompletionResult{}, model.NewValidationError(model.ErrInvalidRole,
			model.FieldError{Field: "role", Message: fmt.Sprintf("profile must be for role %s", role)})
	}

	return do(&p.inflight, completionKey(accountID), func() (model.CompletionResult, error) {
		return p.submit(ctx, accountID, flow, data)
	})
}

func (p *Profile) submit(ctx context.Context, accountID uuid.UUID, flow wizard.Flow, data model.ProfileData) (model.CompletionResult, error) {
	account, err := p.editableAccount(ctx, accountID)
	if err != nil {
		return model.CompletionResult{}, err
	}
	if account.Role != flow.Role {
		return model.CompletionResult{}, model.NewValidationError(model.ErrInvalidRole,
			model.FieldError{Field: "role", Message: fmt.Sprintf("account role is %s", account.Role)})
	}

	if flow.Last() > 0 {
		draft, err := p.draftStore.Get(ctx, accountID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return model.CompletionResult{}, fmt.Errorf("failed to get profile draft: %w", err)
		}
		if err != nil || draft.Step < flow.Last() {
			return model.CompletionResult{}, model.ErrStepNotReached
		}
		keepDocuments(data, draft.Data)
	}

	if verr := flow.CheckThrough(flow.Last(), data); verr != nil {
		return model.CompletionResult{}, verr
	}
	if err := p.checkDocuments(ctx, accountID, data); err != nil {
		return model.CompletionResult{}, err
	}

	return p.commit(ctx, account, data, "submit")
}

// Skip completes a client profile with no optional fields.
func (p *Profile) Skip(ctx context.Context, accountID uuid.UUID) (res model.CompletionResult, err error) {
	ctx, span := tracer.Start(ctx, "Profile.Skip")
	defer func() { finish(span, err) }()
	span.SetAttributes(attribute.String("account.id", accountID.String()))

	return do(&p.inflight, completionKey(accountID), func() (model.CompletionResult, error) {
		account, err := p.editableAccount(ctx, accountID)
		if err != nil {
			return model.CompletionResult{}, err
		}
		if account.Role != model.RoleClient {
			return model.CompletionResult{}, model.ErrSkipNotAllowed
		}
		return p.commit(ctx, account, &model.ClientProfile{}, "skip")
	})
}

func (p *Profile) commit(ctx context.Context, account model.Account, data model.ProfileData, path string) (model.CompletionResult, error) {
	if err := ctx.Err(); err != nil {
		return model.CompletionResult{}, err
	}

	committed, err := p.accountStore.UpdateProfile(ctx, account.ID, data)
	if err != nil {
		if errors.Is(err, model.ErrProfileAlreadyComplete) {
			return model.CompletionResult{}, err
		}
		if errors.Is(err, model.ErrNotVerified) {
			return model.CompletionResult{}, &model.StateError{Op: "commit profile", Err: err}
		}
		p.logger.Error("Profile service: failed to commit profile",
			"account_id", account.ID,
			"error", err.Error())
		return model.CompletionResult{}, fmt.Errorf("failed to commit profile: %w", err)
	}
	obs.RecordProfile(string(committed.Role), path)

	if err := p.draftStore.Delete(ctx, account.ID); err != nil {
		p.logger.Warn("Profile service: failed to delete committed draft",
			"account_id", account.ID,
			"error", err.Error())
	}

	p.logger.Info("Profile service: profile completed",
		"account_id", account.ID,
		"role", committed.Role,
		"path", path)

	result := model.CompletionResult{Account: committed.Snapshot()}

	session, err := p.sessions.Establish(ctx, committed)
	if err != nil {
		if !errors.Is(err, model.ErrSessionFailed) {
			err = &model.CollaboratorError{Kind: model.ErrSessionFailed, Err: err}
		}
		return result, err
	}
	result.Session = session

	return result, nil
}

// editableAccount loads an account that may still change its profile.
func (p *Profile) editableAccount(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	account, err := p.accountStore.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, err
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	if !account.EmailVerified {
		return model.Account{}, model.ErrNotVerified
	}
	if account.ProfileComplete {
		return model.Account{}, model.ErrProfileAlreadyComplete
	}
	return account, nil
}

func (p *Profile) loadDraft(ctx context.Context, account model.Account) (model.ProfileDraft, error) {
	draft, err := p.draftStore.Get(ctx, account.ID)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.ProfileDraft{}, fmt.Errorf("failed to get profile draft: %w", err)
	}

	data, err := model.NewProfileData(account.Role)
	if err != nil {
		return model.ProfileDraft{}, err
	}
	now := p.now()
	draft = model.ProfileDraft{
		AccountID: account.ID,
		Role:      account.Role,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.draftStore.Save(ctx, draft); err != nil {
		return model.ProfileDraft{}, fmt.Errorf("failed to start profile draft: %w", err)
	}

	p.logger.Debug("Profile service: draft started",
		"account_id", account.ID,
		"role", account.Role)

	return draft, nil
}

func (p *Profile) apply(draft *model.ProfileDraft, data model.ProfileData) error {
	if data == nil || data.Role() != draft.Role {
		return model.NewValidationError(model.ErrInvalidRole,
			model.FieldError{Field: "role", Message: fmt.Sprintf("profile must be for role %s", draft.Role)})
	}
	keepDocuments(data, draft.Data)
	draft.Data = data
	return nil
}

func (p *Profile) saveDraft(ctx context.Context, draft *model.ProfileDraft) error {
	draft.UpdatedAt = p.now()
	if err := p.draftStore.Save(ctx, *draft); err != nil {
		return fmt.Errorf("failed to save profile draft: %w", err)
	}
	return nil
}

// completionKey is shared by every path that completes a profile, so Submit and
// Skip of one account never run side by side in this process.
func completionKey(accountID uuid.UUID) string {
	return "complete:" + accountID.String()
}

// keepDocuments overwrites the document references of data with those of stored.
func keepDocuments(data, stored model.ProfileData) {
	switch d := data.(type) {
	case *model.ServiceProfile:
		var s model.ServiceProfile
		if p, ok := stored.(*model.ServiceProfile); ok && p != nil {
			s = *p
		}
		d.IdentityDocumentID = s.IdentityDocumentID
	case *model.VendorProfile:
		var s model.VendorProfile
		if p, ok := stored.(*model.VendorProfile); ok && p != nil {
			s = *p
		}
		d.IdentityDocumentID = s.IdentityDocumentID
		d.BusinessProofDocumentID = s.BusinessProofDocumentID
		d.CategoryPhotos = make(map[string][]string, len(s.CategoryPhotos))
		for c, ids := range s.CategoryPhotos {
			d.CategoryPhotos[c] = slices.Clone(ids)
		}
	}
}

type documentRef struct {
	step     string
	field    string
	id       string
	kind     model.DocumentKind
	category string
}

func documentRefs(data model.ProfileData) []documentRef {
	switch d := data.(type) {
	case *model.ServiceProfile:
		return []documentRef{{step: "verification", field: "identityDocumentId", id: d.IdentityDocumentID, kind: model.DocumentIdentity}}
	case *model.VendorProfile:
		refs := []documentRef{
			{step: "verification", field: "identityDocumentId", id: d.IdentityDocumentID, kind: model.DocumentIdentity},
			{step: "verification", field: "businessProofDocumentId", id: d.BusinessProofDocumentID, kind: model.DocumentBusinessProof},
		}
		for _, c := range d.Categories {
			for i, id := range d.CategoryPhotos[c] {
				refs = append(refs, documentRef{
					step:     "portfolio",
					field:    fmt.Sprintf("categoryPhotos.%s[%d]", c, i),
					id:       id,
					kind:     model.DocumentPortfolioPhoto,
					category: c,
				})
			}
		}
		return refs
	default:
		return nil
	}
}

// checkDocuments rejects references that do not resolve to an upload of the
// account with the expected kind and category.
func (p *Profile) checkDocuments(ctx context.Context, accountID uuid.UUID, data model.ProfileData) error {
	var verr *model.ValidationError
	for _, ref := range documentRefs(data) {
		ok, err := p.ownsDocument(ctx, accountID, ref)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if verr == nil {
			verr = &model.ValidationError{Kind: model.ErrInvalidField, Step: ref.step}
		}
		verr.Fields = append(verr.Fields, model.FieldError{Field: ref.field, Message: "does not reference an uploaded document"})
	}
	if verr != nil {
		p.logger.Warn("Profile service: profile references unknown documents",
			"account_id", accountID,
			"fields", len(verr.Fields))
		return verr
	}
	return nil
}

func (p *Profile) ownsDocument(ctx context.Context, accountID uuid.UUID, ref documentRef) (bool, error) {
	id, err := uuid.Parse(ref.id)
	if err != nil {
		return false, nil
	}
	doc, err := p.documentStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get document: %w", err)
	}
	if doc.AccountID != accountID || doc.Kind != ref.kind {
		return false, nil
	}
	return ref.kind != model.DocumentPortfolioPhoto || doc.Category == ref.category, nil
}
