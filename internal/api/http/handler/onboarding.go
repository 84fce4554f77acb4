package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/dtroode/glowbook-server/internal/api/http/middleware"
	"github.com/dtroode/glowbook-server/internal/model"
)

var (
	tagSignup       = []string{"Signup"}
	tagVerification = []string{"Verification"}
	tagProfile      = []string{"Profile"}
	tagDocuments    = []string{"Documents"}
)

func (h *Handler) registerSignup(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/v1/signup",
		Summary:       "Create an account",
		Description:   "Creates an unverified account and sends a verification email.",
		Tags:          tagSignup,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *SignupInput) (*SignupOutput, error) {
		res, err := h.signup.Register(ctx, model.SignupRequest{
			Email:           in.Body.Email,
			Password:        in.Body.Password,
			ConfirmPassword: in.Body.ConfirmPassword,
			FirstName:       in.Body.FirstName,
			LastName:        in.Body.LastName,
			Role:            in.Body.Role,
		})
		emailFailed := errors.Is(err, model.ErrEmailDeliveryFailed) && res.Account.ID != uuid.Nil
		if err != nil && !emailFailed {
			return nil, h.mapServiceError(err)
		}

		out := &SignupOutput{Location: "/v1/onboarding/" + res.Account.ID.String() + "/profile"}
		out.Body.Account = toAccount(res.Account)
		out.Body.VerificationEmailSent = !emailFailed
		if !emailFailed {
			expires := res.Verification.ExpiresAt
			out.Body.VerificationExpiresAt = &expires
		}
		return out, nil
	})
}

func (h *Handler) registerVerification(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "resend-verification",
		Method:      http.MethodPost,
		Path:        "/v1/verification/resend",
		Summary:     "Resend the verification email",
		Tags:        tagVerification,
	}, func(ctx context.Context, in *ResendInput) (*ResendOutput, error) {
		id, err := parseID(in.Body.AccountID, "body.accountId")
		if err != nil {
			return nil, err
		}
		issued, err := h.verification.Request(ctx, id)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		out := &ResendOutput{}
		out.Body.ExpiresAt = issued.ExpiresAt
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "confirm-verification",
		Method:      http.MethodPost,
		Path:        "/v1/verification/confirm",
		Summary:     "Confirm an email address",
		Tags:        tagVerification,
	}, func(ctx context.Context, in *ConfirmInput) (*AccountOutput, error) {
		return h.confirm(ctx, in.Body.Token)
	})

	huma.Register(api, huma.Operation{
		OperationID: "confirm-verification-link",
		Method:      http.MethodGet,
		Path:        "/v1/verification/confirm",
		Summary:     "Confirm an email address from the emailed link",
		Tags:        tagVerification,
	}, func(ctx context.Context, in *ConfirmQueryInput) (*AccountOutput, error) {
		return h.confirm(ctx, in.Token)
	})
}

func (h *Handler) confirm(ctx context.Context, token string) (*AccountOutput, error) {
	account, err := h.verification.Confirm(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return nil, huma.Error410Gone("verification link has expired, request a new one")
		}
		return nil, h.mapServiceError(err)
	}
	return &AccountOutput{Body: toAccount(account.Snapshot())}, nil
}

func (h *Handler) registerProfile(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile-draft",
		Method:      http.MethodGet,
		Path:        "/v1/onboarding/{accountId}/profile",
		Summary:     "Get the profile draft",
		Tags:        tagProfile,
	}, func(ctx context.Context, in *AccountPath) (*DraftOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		draft, err := h.profile.Draft(ctx, id)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return &DraftOutput{Body: toDraft(draft)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-profile-draft",
		Method:      http.MethodPut,
		Path:        "/v1/onboarding/{accountId}/profile",
		Summary:     "Save profile edits without moving between steps",
		Tags:        tagProfile,
	}, func(ctx context.Context, in *SaveDraftInput) (*DraftOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		data, err := in.Body.Profile.profileData(model.Role(in.Body.Role))
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		draft, err := h.profile.SaveDraft(ctx, id, data)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return &DraftOutput{Body: toDraft(draft)}, nil
	})

	h.registerStep(api, "advance-profile", "advance", "Save edits and move to the next step", h.profile.Advance)
	h.registerStep(api, "back-profile", "back", "Save edits and move to the previous step", h.profile.Back)

	huma.Register(api, huma.Operation{
		OperationID: "submit-profile",
		Method:      http.MethodPost,
		Path:        "/v1/onboarding/{accountId}/profile/submit",
		Summary:     "Complete the profile and open a session",
		Tags:        tagProfile,
	}, func(ctx context.Context, in *SubmitInput) (*CompletionOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		role := model.Role(in.Body.Role)
		data, err := in.Body.Profile.profileData(role)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		res, err := h.profile.Submit(ctx, id, role, data)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return completion(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "skip-profile",
		Method:      http.MethodPost,
		Path:        "/v1/onboarding/{accountId}/profile/skip",
		Summary:     "Finish a client profile without optional fields",
		Tags:        tagProfile,
	}, func(ctx context.Context, in *SkipInput) (*CompletionOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		res, err := h.profile.Skip(ctx, id)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return completion(res), nil
	})
}

func (h *Handler) registerStep(
	api huma.API,
	operationID, action, summary string,
	move func(ctx context.Context, accountID uuid.UUID, fromStep string, data model.ProfileData) (model.ProfileDraft, error),
) {
	huma.Register(api, huma.Operation{
		OperationID: operationID,
		Method:      http.MethodPost,
		Path:        "/v1/onboarding/{accountId}/profile/" + action,
		Summary:     summary,
		Description: "Edits are stored even when the step gate rejects the move.",
		Tags:        tagProfile,
	}, func(ctx context.Context, in *StepInput) (*DraftOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		var data model.ProfileData
		if in.Body.Profile != nil {
			if data, err = in.Body.Profile.profileData(model.Role(in.Body.Role)); err != nil {
				return nil, h.mapServiceError(err)
			}
		}
		draft, err := move(ctx, id, in.Body.FromStep, data)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return &DraftOutput{Body: toDraft(draft)}, nil
	})
}

func completion(res model.CompletionResult) *CompletionOutput {
	out := &CompletionOutput{}
	out.Body.Account = toAccount(res.Account)
	out.Body.Session = toSession(res.Session)
	return out
}

func (h *Handler) registerDocuments(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "upload-document",
		Method:        http.MethodPost,
		Path:          "/v1/onboarding/{accountId}/documents",
		Summary:       "Upload a verification document or portfolio photo",
		Tags:          tagDocuments,
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  h.maxUpload,
	}, func(ctx context.Context, in *UploadInput) (*DocumentOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		kind, err := model.ParseDocumentKind(in.Kind)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		doc, err := h.documents.Upload(ctx, model.UploadRequest{
			AccountID:   id,
			Kind:        kind,
			Category:    in.Category,
			ContentType: in.ContentType,
			Size:        int64(len(in.RawBody)),
			Body:        bytes.NewReader(in.RawBody),
		})
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		return &DocumentOutput{
			Location: fmt.Sprintf("/v1/onboarding/%s/documents/%s", id, doc.ID),
			Body:     toDocument(doc),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-documents",
		Method:      http.MethodGet,
		Path:        "/v1/onboarding/{accountId}/documents",
		Summary:     "List uploaded documents",
		Tags:        tagDocuments,
	}, func(ctx context.Context, in *AccountPath) (*DocumentListOutput, error) {
		id, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		docs, err := h.documents.List(ctx, id)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		out := &DocumentListOutput{}
		out.Body.Documents = make([]Document, 0, len(docs))
		for _, d := range docs {
			out.Body.Documents = append(out.Body.Documents, toDocument(d))
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-document",
		Method:      http.MethodGet,
		Path:        "/v1/onboarding/{accountId}/documents/{documentId}",
		Summary:     "Download a document of the signed-in account",
		Tags:        tagDocuments,
		Security:    bearer,
	}, func(ctx context.Context, in *DownloadInput) (*DownloadOutput, error) {
		accountID, err := parseID(in.AccountID, "path.accountId")
		if err != nil {
			return nil, err
		}
		session, ok := middleware.SessionFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("not authenticated")
		}
		if session.AccountID != accountID {
			return nil, huma.Error404NotFound("not found")
		}
		documentID, err := parseID(in.DocumentID, "path.documentId")
		if err != nil {
			return nil, err
		}
		doc, rc, err := h.documents.Open(ctx, accountID, documentID)
		if err != nil {
			return nil, h.mapServiceError(err)
		}
		defer rc.Close()

		body, err := io.ReadAll(io.LimitReader(rc, doc.Size+1))
		if err != nil {
			return nil, h.mapServiceError(&model.CollaboratorError{Kind: model.ErrStorageFailed, Err: err})
		}
		return &DownloadOutput{ContentType: doc.ContentType, Body: body}, nil
	})
}
