package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

const accountIDKey = "x-account-id"

// Manager stores the authenticated account id in incoming gRPC metadata.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetAccountIDToContext overwrites any account id the client may have sent.
func (m *Manager) SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		md = md.Copy()
		md.Set(accountIDKey, accountID.String())
	} else {
		md = metadata.Pairs(accountIDKey, accountID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

func (m *Manager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	values := md.Get(accountIDKey)
	if len(values) == 0 {
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(values[0])
	if err != nil {
		return uuid.Nil, false
	}

	return accountID, true
}
